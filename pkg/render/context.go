package render

import "github.com/mtstanley/rsume/pkg/schema"

// BuildContext converts a validated Author into the generic tree handed to
// the template engine. The mapping is explicit and total: every schema field
// maps to exactly one node, under the same name the data file uses, so
// templates reference fields by their schema names. Nothing is computed or
// dropped here, and the Author is never mutated.
func BuildContext(author *schema.Author) map[string]any {
	if author == nil {
		return map[string]any{}
	}

	social := make(map[string]any, len(author.Social))
	for network, entry := range author.Social {
		social[network] = socialNode(entry)
	}

	experiences := make([]any, 0, len(author.Experiences))
	for _, exp := range author.Experiences {
		experiences = append(experiences, experienceNode(exp))
	}

	educations := make([]any, 0, len(author.Educations))
	for _, edu := range author.Educations {
		educations = append(educations, educationNode(edu))
	}

	skills := make([]any, 0, len(author.Skills))
	for _, skill := range author.Skills {
		skills = append(skills, skillNode(skill))
	}

	projects := make([]any, 0, len(author.Projects))
	for _, project := range author.Projects {
		projects = append(projects, projectNode(project))
	}

	return map[string]any{
		"name":        author.Name,
		"email":       author.Email,
		"description": author.Description,
		"picture":     author.Picture,
		"phone":       author.Phone,
		"website":     author.Website,
		"summary":     author.Summary,
		"location":    locationNode(author.Location),
		"social":      social,
		"experiences": experiences,
		"educations":  educations,
		"skills":      skills,
		"projects":    projects,
	}
}

func locationNode(loc schema.Location) map[string]any {
	return map[string]any{
		"address":      loc.Address,
		"postal_code":  loc.PostalCode,
		"city":         loc.City,
		"country_code": loc.CountryCode,
		"region":       loc.Region,
	}
}

func socialNode(s schema.Social) map[string]any {
	return map[string]any{
		"username": s.Username,
		"url":      s.URL,
	}
}

func experienceNode(exp schema.Experience) map[string]any {
	return map[string]any{
		"company": map[string]any{
			"name":     exp.Company.Name,
			"location": exp.Company.Location,
		},
		"department": exp.Department,
		"position":   exp.Position,
		"website":    exp.Website,
		"start_date": exp.StartDate,
		"end_date":   exp.EndDate,
		"current":    exp.Current,
		"highlights": stringNodes(exp.Highlights),
		"display":    stringNodes(exp.Display),
	}
}

func educationNode(edu schema.Education) map[string]any {
	return map[string]any{
		"institution": edu.Institution,
		"website":     edu.Website,
		"major":       edu.Major,
		"minor":       edu.Minor,
		"start_date":  edu.StartDate,
		"end_date":    edu.EndDate,
		"current":     edu.Current,
		"gpa": map[string]any{
			"major":   edu.GPA.Major,
			"overall": edu.GPA.Overall,
		},
		"achievements": stringNodes(edu.Achievements),
		"location":     edu.Location,
		"degree":       edu.Degree,
		"honors":       edu.Honors,
	}
}

func skillNode(skill schema.Skill) map[string]any {
	return map[string]any{
		"name":     skill.Name,
		"level":    skill.Level,
		"keywords": skill.Keywords,
		"category": skill.Category,
	}
}

func projectNode(project schema.Project) map[string]any {
	return map[string]any{
		"name":        project.Name,
		"website":     project.Website,
		"source":      project.Source,
		"description": project.Description,
	}
}

func stringNodes(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
