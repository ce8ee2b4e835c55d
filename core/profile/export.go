package profile

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// TranscriptHeader is the first row of a CSV transcript.
var TranscriptHeader = []string{"Level", "Semester", "Course Code", "Course Name", "Credits", "Grade", "Grade Points"}

// WriteTranscriptCSV writes one row per course of p, semesters in (level, semester) order.
func WriteTranscriptCSV(w io.Writer, p Profile) error {
	p = p.Clone()
	p.SortSemesters()

	cw := csv.NewWriter(w)
	if err := cw.Write(TranscriptHeader); err != nil {
		return errors.Wrap(err, "csv.Write")
	}
	for _, s := range p.Semesters {
		for _, c := range s.Courses {
			row := []string{
				strconv.Itoa(int(s.Level)),
				strconv.Itoa(int(s.Number)),
				c.Code,
				c.Name.String,
				strconv.Itoa(c.Credits),
				string(c.Grade),
				strconv.FormatFloat(c.GradePoints(), 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return errors.Wrap(err, "csv.Write")
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "csv.Flush")
}

// WriteJSON dumps the whole document.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "json.Encode")
}

// ReadJSON reads a document written by WriteJSON (or by the browser app).
// Semester totals are not trusted: they are recomputed from the courses.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(err, "json.Decode")
	}
	for i := range doc.Profiles {
		p := &doc.Profiles[i]
		if p.ID == "" {
			return Document{}, errors.Errorf("profile %d has no id", i)
		}
		for j := range p.Semesters {
			s := &p.Semesters[j]
			if !s.Level.Valid() || !s.Number.Valid() {
				return Document{}, errors.Errorf("profile %s: invalid semester %s", p.ID, s.Key())
			}
			if err := s.Recompute(); err != nil {
				return Document{}, errors.Wrapf(err, "profile %s: %s", p.ID, s.Key())
			}
		}
	}
	return doc, nil
}
