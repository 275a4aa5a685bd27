package infrastructure

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"

	"recruitment-tracker/domain"
)

//go:embed templates/application.docx
var applicationTemplate []byte

const (
	experiencesBlock = `<w:p><w:r><w:t xml:space="preserve">{{experiences}}</w:t></w:r></w:p>`
	stagesBlock      = `<w:p><w:r><w:t xml:space="preserve">{{stages}}</w:t></w:r></w:p>`
)

var stageHex = map[domain.StageStatus]string{
	domain.StageCompleted: "34A853",
	domain.StageCurrent:   "FBBC04",
	domain.StagePending:   "EA4335",
}

// DOCXRenderer fills the embedded Word template with an ApplicationDetail.
type DOCXRenderer struct {
	template []byte
	now      func() time.Time
}

func NewDOCXRenderer() *DOCXRenderer {
	return &DOCXRenderer{template: applicationTemplate, now: time.Now}
}

func (r *DOCXRenderer) Render(detail *domain.ApplicationDetail) ([]byte, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(r.template), int64(len(r.template)))
	if err != nil {
		return nil, fmt.Errorf("failed to read docx template: %w", err)
	}
	defer doc.Close()
	d := doc.Editable()

	rating := "Not rated"
	if detail.Rating != nil {
		rating = ratingStars(*detail.Rating)
	}
	fields := []struct{ placeholder, value string }{
		{"{{application_id}}", strconv.FormatUint(uint64(detail.ApplicationID), 10)},
		{"{{candidate_name}}", detail.CandidateName},
		{"{{role_name}}", detail.RoleName},
		{"{{current_stage}}", detail.CurrentStageName},
		{"{{status}}", capitalize(string(detail.Status))},
		{"{{application_date}}", formatDate(&detail.ApplicationDate)},
		{"{{rating}}", rating},
		{"{{generated_at}}", r.now().Format("January 02, 2006 at 03:04 PM")},
	}
	for _, f := range fields {
		if err := d.Replace(f.placeholder, f.value, -1); err != nil {
			return nil, fmt.Errorf("failed to fill %s: %w", f.placeholder, err)
		}
	}

	d.ReplaceRaw(experiencesBlock, experienceParagraphs(detail.Experiences), 1)
	d.ReplaceRaw(stagesBlock, stageParagraphs(detail.RoleStages), 1)

	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func experienceParagraphs(experiences []domain.ExperienceDetail) string {
	if len(experiences) == 0 {
		return paragraph("", "No work experience listed", "80868B")
	}
	var b strings.Builder
	for _, e := range experiences {
		b.WriteString(paragraph(e.Position+" at "+e.CompanyName, "", "202124"))
		period := formatDate(&e.StartDate) + " - "
		if e.EndDate != nil {
			period += formatDate(e.EndDate)
		} else {
			period += "Present"
		}
		b.WriteString(paragraph("", period, "80868B"))
		if e.Description != nil && *e.Description != "" {
			b.WriteString(paragraph("", *e.Description, "202124"))
		}
	}
	return b.String()
}

func stageParagraphs(stages []domain.RoleStage) string {
	if len(stages) == 0 {
		return paragraph("", "No stages configured", "80868B")
	}
	var b strings.Builder
	for _, st := range stages {
		b.WriteString(paragraph(fmt.Sprintf("%d. %s", st.StageSequence, st.StageName), "  "+string(st.Status), stageHex[st.Status]))
	}
	return b.String()
}

// paragraph writes a bold lead run followed by a colored plain run.
func paragraph(bold, plain, color string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if bold != "" {
		b.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">`)
		xml.EscapeText(&b, []byte(bold))
		b.WriteString("</w:t></w:r>")
	}
	if plain != "" {
		fmt.Fprintf(&b, `<w:r><w:rPr><w:color w:val="%s"/></w:rPr><w:t xml:space="preserve">`, color)
		xml.EscapeText(&b, []byte(plain))
		b.WriteString("</w:t></w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}
