package minutes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

const (
	fontName    = "Times New Roman"
	fontSize    = 13
	headingSize = 15
	titleSize   = 16
)

// Writer renders finished aggregates to DOCX minutes in the artifacts
// directory.
type Writer struct {
	dir    string
	logger logger.Logger
}

// New creates a minutes Writer rooted at dir.
func New(dir string, log logger.Logger) *Writer {
	return &Writer{dir: dir, logger: log}
}

// Write renders the aggregate and returns the path of the written file.
func (w *Writer) Write(ctx context.Context, roomID string, agg session.Summary) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create artifacts dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}

	addRun(doc.AddParagraph(""), "Meeting Minutes: "+roomID, true, titleSize)
	addRun(doc.AddParagraph(""), metaLine(agg), false, fontSize)
	doc.AddParagraph("")

	addRun(doc.AddParagraph(""), "Summary", true, headingSize)
	addRun(doc.AddParagraph(""), agg.Summary, false, fontSize)

	if len(agg.KeyPoints) > 0 {
		doc.AddParagraph("")
		addRun(doc.AddParagraph(""), "Key Points", true, headingSize)
		for _, kp := range agg.KeyPoints {
			addRun(doc.AddParagraph(""), "• "+kp, false, fontSize)
		}
	}

	if len(agg.Transcriptions) > 0 {
		doc.AddParagraph("")
		addRun(doc.AddParagraph(""), "Transcript", true, headingSize)
		for _, e := range agg.Transcriptions {
			text := strings.TrimSpace(e.Text)
			if text == "" {
				continue
			}
			name := e.Name
			if name == "" {
				name = e.ID
			}
			p := doc.AddParagraph("")
			p.AddText(name+": ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
			p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
		}
	}

	path := filepath.Join(w.dir, fileName(roomID, agg.EndTime))
	if err := doc.SaveTo(path); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	w.logger.Debug(ctx, "Minutes rendered to %s", path)
	return path, nil
}

func metaLine(agg session.Summary) string {
	d := time.Duration(agg.DurationMS) * time.Millisecond
	return fmt.Sprintf("%s, duration %s, %d participant(s)",
		agg.StartTime, d.Round(time.Second), len(agg.Participants))
}

// fileName keeps the room id and end time filesystem-safe.
func fileName(roomID, endTime string) string {
	sanitize := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				return r
			default:
				return '-'
			}
		}, s)
	}
	return sanitize(roomID) + "-" + sanitize(endTime) + ".docx"
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
