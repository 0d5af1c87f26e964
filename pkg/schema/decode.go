package schema

import (
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// decodeRaw parses a data file into a generic tree with every date-typed
// scalar already converted to its canonical display string. This is the only
// place a native timestamp from the input format is turned into text.
func decodeRaw(data []byte, format Format) (map[string]any, error) {
	var doc any
	var err error
	switch format {
	case FormatJSON:
		err = gojson.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty document")
	}

	root, ok := normalizeValue(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be a mapping")
	}
	return root, nil
}

// normalizeValue walks the decoded tree converting YAML-specific shapes into
// the generic map/slice/scalar form the structural validator and the typed
// decoder both consume. Native timestamps become canonical date strings.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, normalizeValue(item))
		}
		return out
	case time.Time:
		return canonicalDate(val)
	default:
		return val
	}
}

// rawAuthor mirrors the document field names. The normalized tree is
// round-tripped through JSON into these structs so YAML and JSON inputs
// share one decode path.
type rawAuthor struct {
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Description string               `json:"description"`
	Picture     string               `json:"picture"`
	Phone       string               `json:"phone"`
	Website     string               `json:"website"`
	Summary     string               `json:"summary"`
	Location    rawLocation          `json:"location"`
	Social      map[string]rawSocial `json:"social"`
	Experiences []rawExperience      `json:"experiences"`
	Educations  []rawEducation       `json:"educations"`
	Skills      []rawSkill           `json:"skills"`
	Projects    []rawProject         `json:"projects"`
}

type rawLocation struct {
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Region      string `json:"region"`
}

type rawSocial struct {
	Username string `json:"username"`
	URL      string `json:"url"`
}

type rawCompany struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type rawExperience struct {
	Company    rawCompany `json:"company"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	Website    string     `json:"website"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Current    bool       `json:"current"`
	Highlights []string   `json:"highlights"`
	Display    []string   `json:"display"`
}

type rawEducation struct {
	Institution  string   `json:"institution"`
	Website      string   `json:"website"`
	Major        string   `json:"major"`
	Minor        string   `json:"minor"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Current      bool     `json:"current"`
	GPA          rawGPA   `json:"gpa"`
	Achievements []string `json:"achievements"`
	Location     string   `json:"location"`
	Degree       string   `json:"degree"`
	Honors       string   `json:"honors"`
}

// rawGPA accepts both historical GPA encodings: a flat scalar, which is
// migrated to the overall grade, and the structured {major, overall} form.
type rawGPA struct {
	Major   float64
	Overall float64
}

func (g *rawGPA) UnmarshalJSON(b []byte) error {
	var scalar float64
	if err := gojson.Unmarshal(b, &scalar); err == nil {
		g.Major = 0
		g.Overall = scalar
		return nil
	}
	var structured struct {
		Major   float64 `json:"major"`
		Overall float64 `json:"overall"`
	}
	if err := gojson.Unmarshal(b, &structured); err != nil {
		return err
	}
	g.Major = structured.Major
	g.Overall = structured.Overall
	return nil
}

type rawSkill struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Keywords string `json:"keywords"`
	Category string `json:"category"`
}

type rawProject struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

func decodeTyped(root map[string]any) (rawAuthor, error) {
	var out rawAuthor
	payload, err := gojson.Marshal(root)
	if err != nil {
		return out, err
	}
	if err := gojson.Unmarshal(payload, &out); err != nil {
		return out, err
	}
	return out, nil
}
