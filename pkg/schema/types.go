package schema

// Author is the root of the resume data model. Instances are built once per
// run by the Loader and are read-only afterwards: the context builder and the
// escaping filters never mutate them.
type Author struct {
	Name        string
	Email       string
	Description string
	Picture     string
	Phone       string
	Website     string
	Summary     string
	Location    Location
	Social      map[string]Social
	Experiences []Experience
	Educations  []Education
	Skills      []Skill
	Projects    []Project
}

// Location holds the postal fields of an author.
type Location struct {
	Address     string
	PostalCode  string
	City        string
	CountryCode string
	Region      string
}

// Social is one entry of the author's social map, keyed by network name
// ("github", "linkedin", ...). Keys are unique; the key set is fixed at load
// time.
type Social struct {
	Username string
	URL      string
}

// Company identifies an employer within an Experience.
type Company struct {
	Name     string
	Location string
}

// Experience is a single position. StartDate and EndDate are canonical
// display strings produced by the loader; EndDate is empty exactly when the
// position is current. Display lists the optional sub-fields a template
// should show for this entry, in order.
type Experience struct {
	Company    Company
	Department string
	Position   string
	Website    string
	StartDate  string
	EndDate    string
	Current    bool
	Highlights []string
	Display    []string
}

// GradePointAverage is the canonical structured GPA representation. A flat
// scalar in the input document is migrated to Overall with Major left zero.
type GradePointAverage struct {
	Major   float64
	Overall float64
}

// Education is a single degree entry. Honors carries the latin-honors line
// and may be empty.
type Education struct {
	Institution  string
	Website      string
	Major        string
	Minor        string
	StartDate    string
	EndDate      string
	Current      bool
	GPA          GradePointAverage
	Achievements []string
	Location     string
	Degree       string
	Honors       string
}

// Skill is a single skill entry; Category groups skills in the rendered
// document.
type Skill struct {
	Name     string
	Level    string
	Keywords string
	Category string
}

// Project is a single personal-project entry.
type Project struct {
	Name        string
	Website     string
	Source      string
	Description string
}
