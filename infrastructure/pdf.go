package infrastructure

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"

	"recruitment-tracker/domain"
)

var (
	primaryColor   = creator.ColorRGBFromHex("#1a73e8")
	secondaryColor = creator.ColorRGBFromHex("#4285f4")
	accentColor    = creator.ColorRGBFromHex("#fbbc04")
	textColor      = creator.ColorRGBFromHex("#202124")
	lightBg        = creator.ColorRGBFromHex("#f8f9fa")
	mutedColor     = creator.ColorRGBFromHex("#80868b")
	gridColor      = creator.ColorRGBFromHex("#dadce0")

	stageColors = map[domain.StageStatus]creator.Color{
		domain.StageCompleted: creator.ColorRGBFromHex("#34a853"),
		domain.StageCurrent:   creator.ColorRGBFromHex("#fbbc04"),
		domain.StagePending:   creator.ColorRGBFromHex("#ea4335"),
	}
)

// PDFRenderer lays out an ApplicationDetail as a letter sized document.
type PDFRenderer struct {
	regular *model.PdfFont
	bold    *model.PdfFont
	italic  *model.PdfFont
	now     func() time.Time
}

func NewPDFRenderer(licenseKey string) (*PDFRenderer, error) {
	if licenseKey != "" {
		if err := license.SetMeteredKey(licenseKey); err != nil {
			return nil, fmt.Errorf("failed to set unidoc license: %w", err)
		}
	}
	regular, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return nil, err
	}
	bold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return nil, err
	}
	italic, err := model.NewStandard14Font(model.HelveticaObliqueName)
	if err != nil {
		return nil, err
	}
	return &PDFRenderer{regular: regular, bold: bold, italic: italic, now: time.Now}, nil
}

func (r *PDFRenderer) Render(detail *domain.ApplicationDetail) ([]byte, error) {
	c := creator.New()
	c.SetPageSize(creator.PageSizeLetter)
	c.SetPageMargins(50, 50, 50, 50)
	c.NewPage()

	title := r.text(c, "Candidate Application Details", r.bold, 24, primaryColor)
	title.SetTextAlignment(creator.TextAlignmentCenter)
	title.SetMargins(0, 0, 0, 20)
	if err := c.Draw(title); err != nil {
		return nil, err
	}

	if err := r.drawBasicInfo(c, detail); err != nil {
		return nil, err
	}
	if err := r.drawExperiences(c, detail.Experiences); err != nil {
		return nil, err
	}
	if err := r.drawStages(c, detail.RoleStages); err != nil {
		return nil, err
	}

	footer := r.text(c, "Generated on "+r.now().Format("January 02, 2006 at 03:04 PM"), r.regular, 8, mutedColor)
	footer.SetTextAlignment(creator.TextAlignmentCenter)
	footer.SetMargins(0, 0, 36, 0)
	if err := c.Draw(footer); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawBasicInfo(c *creator.Creator, d *domain.ApplicationDetail) error {
	if err := r.section(c, "Basic Information"); err != nil {
		return err
	}

	rows := [][2]string{
		{"Candidate Name:", d.CandidateName},
		{"Role:", d.RoleName},
		{"Application Date:", formatDate(&d.ApplicationDate)},
		{"Status:", capitalize(string(d.Status))},
		{"Current Stage:", fmt.Sprintf("%s (Sequence: %d)", d.CurrentStageName, d.CurrentStageSequence)},
	}

	table := c.NewTable(2)
	if err := table.SetColumnWidths(0.3, 0.7); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.labelCell(c, table, row[0]); err != nil {
			return err
		}
		if err := r.valueCell(table, r.text(c, row[1], r.regular, 11, textColor)); err != nil {
			return err
		}
	}
	if d.Rating != nil && *d.Rating > 0 {
		if err := r.labelCell(c, table, "Rating:"); err != nil {
			return err
		}
		stars := r.text(c, ratingStars(*d.Rating), r.bold, 11, accentColor)
		if err := r.valueCell(table, stars); err != nil {
			return err
		}
	}
	table.SetMargins(0, 0, 0, 20)
	return c.Draw(table)
}

func (r *PDFRenderer) drawExperiences(c *creator.Creator, experiences []domain.ExperienceDetail) error {
	if err := r.section(c, "Work Experience"); err != nil {
		return err
	}
	if len(experiences) == 0 {
		p := r.text(c, "No work experience provided", r.regular, 11, textColor)
		p.SetMargins(0, 0, 0, 20)
		return c.Draw(p)
	}

	for _, exp := range experiences {
		table := c.NewTable(1)

		heading := table.NewCell()
		heading.SetBackgroundColor(lightBg)
		heading.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
		heading.SetIndent(8)
		if err := heading.SetContent(r.text(c, exp.Position+" at "+exp.CompanyName, r.bold, 13, secondaryColor)); err != nil {
			return err
		}

		end := "Present"
		if exp.EndDate != nil {
			end = formatDate(exp.EndDate)
		}
		dates := table.NewCell()
		dates.SetIndent(8)
		if err := dates.SetContent(r.text(c, formatDate(&exp.StartDate)+" - "+end, r.italic, 10, mutedColor)); err != nil {
			return err
		}

		if exp.Description != nil && *exp.Description != "" {
			desc := table.NewCell()
			desc.SetIndent(8)
			if err := desc.SetContent(r.text(c, *exp.Description, r.regular, 11, textColor)); err != nil {
				return err
			}
		}

		table.SetMargins(0, 0, 0, 14)
		if err := c.Draw(table); err != nil {
			return err
		}
	}
	return nil
}

func (r *PDFRenderer) drawStages(c *creator.Creator, stages []domain.RoleStage) error {
	if err := r.section(c, "Application Process Stages"); err != nil {
		return err
	}
	if len(stages) == 0 {
		return c.Draw(r.text(c, "No stages defined for this role", r.regular, 11, textColor))
	}

	table := c.NewTable(3)
	if err := table.SetColumnWidths(0.45, 0.2, 0.35); err != nil {
		return err
	}
	for _, h := range []string{"Stage", "Sequence", "Status"} {
		cell := table.NewCell()
		cell.SetBackgroundColor(primaryColor)
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
		cell.SetBorderColor(gridColor)
		cell.SetHorizontalAlignment(creator.CellHorizontalAlignmentCenter)
		if err := cell.SetContent(r.text(c, h, r.bold, 12, creator.ColorWhite)); err != nil {
			return err
		}
	}
	for i, st := range stages {
		bg := creator.ColorWhite
		if i%2 == 1 {
			bg = lightBg
		}
		values := []*creator.Paragraph{
			r.text(c, st.StageName, r.regular, 11, textColor),
			r.text(c, fmt.Sprintf("%d", st.StageSequence), r.regular, 11, textColor),
			r.text(c, string(st.Status), r.bold, 11, stageColors[st.Status]),
		}
		for _, v := range values {
			cell := table.NewCell()
			cell.SetBackgroundColor(bg)
			cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 1)
			cell.SetBorderColor(gridColor)
			cell.SetHorizontalAlignment(creator.CellHorizontalAlignmentCenter)
			if err := cell.SetContent(v); err != nil {
				return err
			}
		}
	}
	return c.Draw(table)
}

func (r *PDFRenderer) section(c *creator.Creator, title string) error {
	p := r.text(c, title, r.bold, 14, primaryColor)
	p.SetMargins(0, 0, 10, 8)
	return c.Draw(p)
}

func (r *PDFRenderer) labelCell(c *creator.Creator, table *creator.Table, label string) error {
	cell := table.NewCell()
	cell.SetBackgroundColor(lightBg)
	cell.SetIndent(5)
	return cell.SetContent(r.text(c, label, r.bold, 11, secondaryColor))
}

func (r *PDFRenderer) valueCell(table *creator.Table, p *creator.Paragraph) error {
	cell := table.NewCell()
	cell.SetIndent(10)
	return cell.SetContent(p)
}

func (r *PDFRenderer) text(c *creator.Creator, s string, font *model.PdfFont, size float64, color creator.Color) *creator.Paragraph {
	p := c.NewParagraph(s)
	p.SetFont(font)
	p.SetFontSize(size)
	p.SetColor(color)
	return p
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("January 02, 2006")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Standard 14 fonts have no star glyphs, so ratings render as text.
func ratingStars(rating int) string {
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("*", rating) + strings.Repeat("-", 5-rating) + fmt.Sprintf(" (%d/5)", rating)
}
