// Package posting models one reference document of the corpus (a job posting).
package posting

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/kailas-cloud/jobmatch/internal/domain/text"
)

// idNamespace scopes derived posting ids.
var idNamespace = uuid.MustParse("6f1c1f2e-58a4-4d35-9d0c-2b1f3c8e7a10")

// Fields are the raw source columns of a posting.
type Fields struct {
	ID           string
	Title        string
	Company      string
	Location     string
	URL          string
	Description  string
	SkillsDesc   string
	SkillName    string
	IndustryName string
}

// Posting is an immutable corpus entry with its derived canonical text.
type Posting struct {
	id        string
	fields    Fields
	canonical string
	skills    string
}

// New builds a posting. When f.ID is empty a stable id is derived from the
// canonical text and the row ordinal, so reloading the same corpus yields the same ids.
func New(f Fields, ordinal int) Posting {
	p := Posting{
		fields:    f,
		canonical: CanonicalText(f),
		skills:    text.Join(f.Title, f.SkillsDesc, f.SkillName),
	}
	p.id = f.ID
	if p.id == "" {
		p.id = uuid.NewSHA1(idNamespace, []byte(strconv.Itoa(ordinal)+"\x00"+p.canonical)).String()
	}
	return p
}

// CanonicalText is the normalized concatenation of the descriptive fields.
func CanonicalText(f Fields) string {
	return text.Join(f.Title, f.Description, f.SkillsDesc, f.SkillName, f.IndustryName)
}

// ID returns the posting identifier.
func (p *Posting) ID() string { return p.id }

// Title returns the raw title.
func (p *Posting) Title() string { return p.fields.Title }

// Company returns the hiring organization.
func (p *Posting) Company() string { return p.fields.Company }

// Location returns the raw location.
func (p *Posting) Location() string { return p.fields.Location }

// URL returns the canonical link to the posting.
func (p *Posting) URL() string { return p.fields.URL }

// CanonicalText returns the normalized text used for vectorization.
func (p *Posting) CanonicalText() string { return p.canonical }

// SkillsText returns the normalized title and skill fields only.
func (p *Posting) SkillsText() string { return p.skills }
