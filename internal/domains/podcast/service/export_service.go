package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/domains/podcast/repository"
	"podcasthub-backend/internal/shared"
)

const exportSheetName = "Podcasts"

var exportHeaders = []string{
	"ID",
	"Title",
	"Author",
	"Category",
	"Status",
	"Episodes",
	"Followers",
	"Submitted By",
	"Created At",
	"Updated At",
	"Cover URL",
	"Description",
}

type exportService struct {
	repo repository.PodcastRepository
}

func NewExportService(repo repository.PodcastRepository) ExportService {
	return &exportService{repo: repo}
}

func (s *exportService) ExportPodcasts(ctx context.Context, caller *shared.Identity, status string) (*bytes.Buffer, error) {
	if caller == nil {
		return nil, model.NewUnauthorizedError()
	}
	if !caller.IsAdmin() {
		return nil, model.NewForbiddenError("Only administrators can export the catalog")
	}

	var filter model.PodcastFilter
	if status != "" {
		filter.Status = model.Status(status)
		if !filter.Status.IsValid() {
			return nil, model.NewValidationError("status must be pending, approved or rejected", nil)
		}
	}

	podcasts, err := s.repo.ExportPodcasts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load podcasts: %w", err)
	}

	f, err := buildPodcastsExcelFile(podcasts)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf, nil
}

func buildPodcastsExcelFile(podcasts []model.Podcast) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastCol, headerStyle)
	}

	// Data rows, bắt đầu từ row 2
	for i, p := range podcasts {
		submittedBy := ""
		if p.SubmittedBy != nil {
			submittedBy = p.SubmittedBy.String()
		}

		values := []interface{}{
			p.ID.String(),
			p.Title,
			p.Author,
			p.Category,
			string(p.Status),
			p.EpisodeCount(),
			p.FollowerCount(),
			submittedBy,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
			p.CoverImageURL,
			p.Description,
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}
