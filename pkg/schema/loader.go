package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed author.schema.json
var authorSchemaJSON string

// ErrNilSource is returned when Load is called without a source.
var ErrNilSource = errors.New("schema: source is required")

// Option customises the Loader configuration.
type Option func(*Loader)

// WithTextSanitizer toggles stripping of stray HTML markup from free-text
// fields. Enabled by default; resumes pasted out of rich-text editors tend
// to carry tags the target syntax would render literally.
func WithTextSanitizer(enabled bool) Option {
	return func(l *Loader) {
		l.sanitize = enabled
	}
}

// WithGPACeiling sets the upper bound accepted for GPA values. Zero
// disables the range check. The default ceiling is 4.0 weighted to 5.0.
func WithGPACeiling(max float64) Option {
	return func(l *Loader) {
		l.gpaCeiling = max
	}
}

// Loader parses and validates resume documents. It performs one
// parse-and-validate pass per call and returns an immutable Author.
type Loader struct {
	sanitize   bool
	gpaCeiling float64
	policy     *bluemonday.Policy
}

const defaultGPACeiling = 5.0

// NewLoader constructs a Loader applying any provided options.
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		sanitize:   true,
		gpaCeiling: defaultGPACeiling,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.sanitize {
		l.policy = bluemonday.StrictPolicy()
	}
	return l
}

// Load reads the document identified by src and validates it into an
// Author. Read failures are I/O errors; everything downstream surfaces as
// Issues.
func (l *Loader) Load(ctx context.Context, src Source) (*Author, error) {
	if ctx == nil {
		return nil, errors.New("schema: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}

	data, err := readSource(src)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	author, err := l.Parse(data, DetectFormat(src.Location()))
	if err != nil {
		return nil, fmt.Errorf("schema: validate %s: %w", src.Location(), err)
	}
	return author, nil
}

func readSource(src Source) ([]byte, error) {
	switch s := src.(type) {
	case fileSource:
		return os.ReadFile(s.path)
	case fsSource:
		return fs.ReadFile(s.fsys, s.name)
	case bytesSource:
		return s.data, nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
	}
}

// Parse decodes, structurally validates, and normalizes a raw document.
// Validation failures are returned as Issues so every defect in the file is
// reported in one pass.
func (l *Loader) Parse(data []byte, format Format) (*Author, error) {
	root, err := decodeRaw(data, format)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error()}}
	}

	if iss := validateStructure(root); len(iss) > 0 {
		return nil, iss
	}

	raw, err := decodeTyped(root)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: err.Error()}}
	}

	var iss Issues
	author := l.build(raw, &iss)
	if len(iss) > 0 {
		sort.SliceStable(iss, func(a, b int) bool { return iss[a].Path < iss[b].Path })
		return nil, iss
	}
	return author, nil
}

// validateStructure checks the raw tree against the embedded author schema
// and maps the validator's findings onto pointer-addressed Issues.
func validateStructure(root map[string]any) Issues {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(authorSchemaJSON),
		gojsonschema.NewGoLoader(root),
	)
	if err != nil {
		return Issues{{Path: "/", Code: CodeParseError, Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	iss := make(Issues, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		iss = append(iss, FieldError{
			Path:    pointerForResult(re),
			Code:    codeForResult(re),
			Message: re.Description(),
		})
	}
	return iss
}

func pointerForResult(re gojsonschema.ResultError) string {
	ctx := re.Context().String("/")
	ctx = strings.TrimPrefix(ctx, "(root)")
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			return ctx + "/" + prop
		}
	}
	if ctx == "" {
		return "/"
	}
	return ctx
}

func codeForResult(re gojsonschema.ResultError) string {
	switch re.Type() {
	case "required", "string_gte":
		return CodeRequired
	case "invalid_type":
		return CodeInvalidType
	default:
		return CodeInvalidType
	}
}

// build converts the raw document into the immutable model, canonicalizing
// dates, migrating GPA encodings, and enforcing the current/end_date
// policy: a current entry must not carry an end date, a finished entry
// must.
func (l *Loader) build(raw rawAuthor, iss *Issues) *Author {
	author := &Author{
		Name:        strings.TrimSpace(raw.Name),
		Email:       strings.TrimSpace(raw.Email),
		Description: l.cleanText(raw.Description),
		Picture:     raw.Picture,
		Phone:       strings.TrimSpace(raw.Phone),
		Website:     raw.Website,
		Summary:     l.cleanText(raw.Summary),
		Location: Location{
			Address:     raw.Location.Address,
			PostalCode:  raw.Location.PostalCode,
			City:        raw.Location.City,
			CountryCode: raw.Location.CountryCode,
			Region:      raw.Location.Region,
		},
	}

	if len(raw.Social) > 0 {
		author.Social = make(map[string]Social, len(raw.Social))
		for network, social := range raw.Social {
			author.Social[network] = Social{Username: social.Username, URL: social.URL}
		}
	}

	for i, exp := range raw.Experiences {
		author.Experiences = append(author.Experiences, l.buildExperience(i, exp, iss))
	}
	for i, edu := range raw.Educations {
		author.Educations = append(author.Educations, l.buildEducation(i, edu, iss))
	}
	for _, skill := range raw.Skills {
		author.Skills = append(author.Skills, Skill(skill))
	}
	for _, project := range raw.Projects {
		author.Projects = append(author.Projects, Project{
			Name:        project.Name,
			Website:     project.Website,
			Source:      project.Source,
			Description: l.cleanText(project.Description),
		})
	}
	return author
}

func (l *Loader) buildExperience(idx int, raw rawExperience, iss *Issues) Experience {
	base := fmt.Sprintf("/experiences/%d", idx)
	exp := Experience{
		Company:    Company(raw.Company),
		Department: raw.Department,
		Position:   raw.Position,
		Website:    raw.Website,
		Current:    raw.Current,
		Highlights: l.cleanTexts(raw.Highlights),
		Display:    append([]string(nil), raw.Display...),
	}
	exp.StartDate = l.date(raw.StartDate, base+"/start_date", true, iss)
	exp.EndDate = l.date(raw.EndDate, base+"/end_date", false, iss)
	l.checkCurrent(exp.Current, exp.EndDate, base+"/end_date", iss)
	return exp
}

func (l *Loader) buildEducation(idx int, raw rawEducation, iss *Issues) Education {
	base := fmt.Sprintf("/educations/%d", idx)
	edu := Education{
		Institution:  raw.Institution,
		Website:      raw.Website,
		Major:        raw.Major,
		Minor:        raw.Minor,
		Current:      raw.Current,
		GPA:          GradePointAverage{Major: raw.GPA.Major, Overall: raw.GPA.Overall},
		Achievements: l.cleanTexts(raw.Achievements),
		Location:     raw.Location,
		Degree:       raw.Degree,
		Honors:       raw.Honors,
	}
	edu.StartDate = l.date(raw.StartDate, base+"/start_date", true, iss)
	edu.EndDate = l.date(raw.EndDate, base+"/end_date", false, iss)
	l.checkCurrent(edu.Current, edu.EndDate, base+"/end_date", iss)
	l.checkGPA(edu.GPA, base+"/gpa", iss)
	return edu
}

func (l *Loader) date(value, path string, required bool, iss *Issues) string {
	if strings.TrimSpace(value) == "" {
		if required {
			iss.append(path, CodeRequired, "date is required")
		}
		return ""
	}
	canonical, err := canonicalizeDate(value)
	if err != nil {
		iss.append(path, CodeMalformedDate, err.Error())
		return ""
	}
	return canonical
}

func (l *Loader) checkCurrent(current bool, endDate, path string, iss *Issues) {
	if current && endDate != "" {
		iss.append(path, CodeConflict, "current entry must not carry an end date")
	}
	if !current && endDate == "" {
		iss.append(path, CodeRequired, "finished entry requires an end date")
	}
}

func (l *Loader) checkGPA(gpa GradePointAverage, path string, iss *Issues) {
	for _, v := range []float64{gpa.Major, gpa.Overall} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			iss.append(path, CodeOutOfRange, "grade must be finite")
			return
		}
		if v < 0 {
			iss.append(path, CodeOutOfRange, "grade must not be negative")
			return
		}
		if l.gpaCeiling > 0 && v > l.gpaCeiling {
			iss.append(path, CodeOutOfRange, fmt.Sprintf("grade exceeds ceiling %.1f", l.gpaCeiling))
			return
		}
	}
}

// cleanText strips markup from user-supplied free text. Sanitizing escapes
// entities, so the result is unescaped back to plain text.
func (l *Loader) cleanText(s string) string {
	if l.policy == nil {
		return s
	}
	return html.UnescapeString(l.policy.Sanitize(s))
}

func (l *Loader) cleanTexts(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, l.cleanText(s))
	}
	return out
}
