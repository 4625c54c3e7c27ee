package server

import (
	"net/http"
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/phrase"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/reading"
	"github.com/toc-cloud/toc-cloud/internal/title"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

// derived holds what the server computes from the five fields.
type derived struct {
	title       title.Result
	bNormalized string
	cNormalized string
}

func deriveFields(f types.CloudFields) derived {
	b := phrase.NormalizeDesire(f.B)
	c := phrase.NormalizeDesire(f.C)
	return derived{
		title: title.Generate(title.Input{
			A:      strings.TrimSpace(f.A),
			B:      b,
			C:      c,
			D:      strings.TrimSpace(f.D),
			Dprime: strings.TrimSpace(f.Dprime),
		}),
		bNormalized: b,
		cNormalized: c,
	}
}

// readAloud builds the script for mode. script "" leaves readings out.
func (s *Server) readAloud(f types.CloudFields, mode readaloud.Mode, script string) readaloud.VM {
	vm := readaloud.Build(readaloud.Input{A: f.A, B: f.B, C: f.C, D: f.D, Dprime: f.Dprime}, mode)
	if script != "" && s.annotator != nil {
		s.annotator.Annotate(&vm, reading.ParseScript(script))
	}
	return vm
}

// handlePreview returns the title, normalized desires and read-aloud lines of a draft.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	mode := readaloud.ParseMode(req.Mode)
	d := deriveFields(req.CloudFields)
	vm := s.readAloud(req.CloudFields, mode, req.Reading)

	s.jsonResponse(w, http.StatusOK, types.PreviewResponse{
		Title:       d.title.Title,
		TitleAuto:   d.title.TitleAuto,
		BNormalized: d.bNormalized,
		CNormalized: d.cNormalized,
		Mode:        string(mode),
		Lines:       vm.Lines,
	})
}

// handleCloudReadAloud returns the read-aloud script of a stored cloud.
// ?mode=adult|kids, ?reading=1|katakana|hiragana
func (s *Server) handleCloudReadAloud(w http.ResponseWriter, r *http.Request) {
	cloud, ok := s.loadVisibleCloud(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	mode := readaloud.ParseMode(q.Get("mode"))
	script := readingParam(q.Get("reading"))
	vm := s.readAloud(cloudFields(cloud), mode, script)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"cloud_id": cloud.ID,
		"mode":     mode,
		"lines":    vm.Lines,
	})
}

// readingParam maps the reading query value onto a script name; "" means none.
func readingParam(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no":
		return ""
	case string(reading.Hiragana):
		return string(reading.Hiragana)
	default:
		return string(reading.Katakana)
	}
}

func cloudFields(c *db.Cloud) types.CloudFields {
	return types.CloudFields{A: c.A, B: c.BRaw, C: c.CRaw, D: c.D, Dprime: c.Dprime}
}
