package report

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"carepilot/internal/intake"
)

type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Service delivers emergency triage alerts to a clinician chat as a short
// message plus a PDF summary of the survey.
type Service struct {
	tgClient        TelegramClient
	clinicianChatID int64
}

func NewService(tg TelegramClient, clinicianChatID int64) *Service {
	return &Service{
		tgClient:        tg,
		clinicianChatID: clinicianChatID,
	}
}

func (s *Service) SendEmergencyAlert(ctx context.Context, survey intake.Survey) error {
	summary := fmt.Sprintf("EMERGENCY triage verdict for survey %s\nReasons:\n- %s",
		survey.ID, strings.Join(survey.Verdict.Reasons, "\n- "))
	if err := s.tgClient.SendMessage(s.clinicianChatID, summary); err != nil {
		return fmt.Errorf("failed to send alert message: %w", err)
	}

	pdfData, err := s.renderSummaryPDF(survey)
	if err != nil {
		return fmt.Errorf("failed to render triage summary: %w", err)
	}

	fileName := fmt.Sprintf("triage_%s.pdf", survey.ID.String())
	if err := s.tgClient.SendDocument(s.clinicianChatID, pdfData, fileName); err != nil {
		return fmt.Errorf("failed to send triage summary: %w", err)
	}
	log.Printf("Emergency alert for survey %s delivered.", survey.ID)
	return nil
}

func (s *Service) renderSummaryPDF(survey intake.Survey) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	// DejaVuSans covers the character range user-entered symptom text can
	// carry. Try the common Alpine/Debian install paths.
	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Triage Alert (Non-Diagnostic)")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Survey ID: %s", survey.ID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Verdict: %s", survey.Verdict.Level))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Age: %d   Pain: %d/10   Duration: %.1fh   Severity: %s",
		survey.Record.Age, survey.Record.PainScale, survey.Record.DurationHours, survey.Record.Severity))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Reported symptoms:")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	lines, _ := pdf.SplitText(survey.Record.SymptomsText, 500)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}
	pdf.Br(10)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Reasons:")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	for _, reason := range survey.Verdict.Reasons {
		lines, _ := pdf.SplitText("- "+reason, 500)
		for _, l := range lines {
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	if len(survey.Suggestions) > 0 {
		pdf.Br(10)
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, "Candidate conditions (not a diagnosis):")
		pdf.Br(15)
		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		for _, sug := range survey.Suggestions {
			pdf.Cell(nil, fmt.Sprintf("- %s (%.2f)", sug.Condition, sug.Confidence))
			pdf.Br(12)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
