package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const reportFolder = "hireloom_reports"

type ReportStore interface {
	FindResponse(ctx context.Context, id uuid.UUID) (*models.TestResponse, error)
	SetReportURL(ctx context.Context, id uuid.UUID, url string) error
}

type ReportService struct {
	store ReportStore
	cld   *cloudinary.Cloudinary

	// RenderPDF and Upload default to headless Chrome and Cloudinary.
	RenderPDF func(ctx context.Context, html string) ([]byte, error)
	Upload    func(ctx context.Context, pdf []byte, publicID string) (string, error)
}

// NewReportService returns nil and ErrReportsDisabled when no Cloudinary URL
// is configured.
func NewReportService(store ReportStore, cloudinaryURL string) (*ReportService, error) {
	if cloudinaryURL == "" {
		return nil, ErrReportsDisabled
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	r := &ReportService{store: store, cld: cld, RenderPDF: generatePDFFromHTML}
	r.Upload = r.uploadToCloudinary
	return r, nil
}

type reportRow struct {
	Skill    string
	Question string
	Answer   string
	Expected string
	Status   string
}

type reportView struct {
	CandidateName  string
	CandidateEmail string
	JobTitle       string
	CompletedAt    string
	TimeSpent      string
	SubmitReason   string
	Score          int
	Total          int
	Percentage     int
	Passed         bool
	PassingScore   int
	PendingReview  int
	Rows           []reportRow
}

// RenderReport produces the recruiter-facing HTML report of a graded response.
func RenderReport(resp *models.TestResponse, test *aptitude.AptitudeTest) (string, error) {
	view := reportView{
		CandidateName:  resp.CandidateName,
		CandidateEmail: resp.CandidateEmail,
		JobTitle:       test.JobTitle,
		TimeSpent:      (time.Duration(resp.TimeSpentSeconds) * time.Second).String(),
		SubmitReason:   resp.SubmitReason,
		Score:          resp.Score,
		Total:          resp.Total,
		Percentage:     resp.Percentage,
		Passed:         resp.Passed,
		PassingScore:   test.PassingScore,
		PendingReview:  resp.PendingReview,
	}
	if resp.CompletedAt != nil {
		view.CompletedAt = resp.CompletedAt.Format("January 2, 2006 15:04")
	}

	for _, b := range resp.Breakdown {
		row := reportRow{Skill: b.Skill, Question: b.Question}
		q, _ := test.Question(b.QuestionID)
		if b.UserAnswer != nil {
			row.Answer = describeAnswer(q, *b.UserAnswer)
		}
		if b.CorrectAnswer != nil {
			row.Expected = describeAnswer(q, *b.CorrectAnswer)
		}
		switch {
		case b.NeedsReview:
			row.Status = "review"
		case b.IsCorrect:
			row.Status = "correct"
		default:
			row.Status = "incorrect"
		}
		view.Rows = append(view.Rows, row)
	}
	return render("report.html", view)
}

// describeAnswer shows a selected option by its text where possible.
func describeAnswer(q aptitude.Question, v aptitude.AnswerValue) string {
	i, ok := v.Choice()
	if !ok {
		return v.Text()
	}
	if mc, isMC := q.Body.(aptitude.MultipleChoice); isMC && i >= 0 && i < len(mc.Options) {
		return fmt.Sprintf("%c. %s", 'A'+i, mc.Options[i])
	}
	return v.String()
}

func (r *ReportService) Publish(ctx context.Context, resp *models.TestResponse, test *aptitude.AptitudeTest) (string, error) {
	html, err := RenderReport(resp, test)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	pdf, err := r.RenderPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("failed to generate PDF: %w", err)
	}
	url, err := r.Upload(ctx, pdf, fmt.Sprintf("%s_%s", resp.TestID, resp.ID))
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	if err := r.store.SetReportURL(ctx, resp.ID, url); err != nil {
		return "", fmt.Errorf("failed to save report url: %w", err)
	}
	log.Printf("✅ Published report for response %s", resp.ID)
	return url, nil
}

// Regenerate rebuilds the report of a completed response.
func (r *ReportService) Regenerate(ctx context.Context, responseID uuid.UUID) (string, error) {
	resp, err := r.store.FindResponse(ctx, responseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrResponseNotFound
	}
	if err != nil {
		return "", err
	}
	if resp.Status != models.ResponseCompleted {
		return "", fmt.Errorf("response %s is %s, not completed", resp.ID, resp.Status)
	}
	return r.Publish(ctx, resp, resp.Test.ToDomain())
}

func generatePDFFromHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func (r *ReportService) uploadToCloudinary(ctx context.Context, fileBytes []byte, publicID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	uploadResult, err := r.cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       reportFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
