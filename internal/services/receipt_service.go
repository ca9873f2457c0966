package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"engrave-backend/internal/models"
	"engrave-backend/internal/pdf"
	"engrave-backend/internal/storage"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptService serves the admin receipt list and renders receipt PDFs,
// archiving each rendered PDF to R2 when configured.
type ReceiptService struct {
	Receipts ReceiptStore
	Archiver *storage.R2Archiver
	Config   *SiteConfigService
}

func NewReceiptService(receipts ReceiptStore, archiver *storage.R2Archiver, config *SiteConfigService) *ReceiptService {
	return &ReceiptService{Receipts: receipts, Archiver: archiver, Config: config}
}

func (s *ReceiptService) List(ctx context.Context, limit int) ([]*models.ReceiptWithDetails, error) {
	return s.Receipts.List(ctx, limit)
}

func (s *ReceiptService) Get(ctx context.Context, id int) (*models.ReceiptWithDetails, error) {
	rec, err := s.Receipts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return rec, nil
}

// RenderPDF renders the receipt as a PDF and archives a copy. Archival
// failure never fails the download.
func (s *ReceiptService) RenderPDF(ctx context.Context, id int) ([]byte, *models.ReceiptWithDetails, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := pdf.RenderReceipt(rec, s.businessName(ctx))
	if err != nil {
		return nil, nil, err
	}

	if s.Archiver != nil {
		key := fmt.Sprintf("receipts/%s.pdf", rec.ReceiptNumber)
		if err := s.Archiver.Put(ctx, key, data, "application/pdf"); err != nil {
			log.Printf("[Receipt] Archive of %s failed: %v", rec.ReceiptNumber, err)
		}
	}

	return data, rec, nil
}

// businessName resolves the PDF header name from the site config; the
// renderer has its own fallback when the lookup fails.
func (s *ReceiptService) businessName(ctx context.Context) string {
	if s.Config == nil {
		return ""
	}
	cfg, err := s.Config.Get(ctx)
	if err != nil {
		return ""
	}
	name, _ := cfg["businessName"].(string)
	return name
}
