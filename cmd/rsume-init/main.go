// Command rsume-init scaffolds a starter resume data file by prompting for
// the identity fields and one experience entry.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"
)

type starter struct {
	Name        string              `yaml:"name"`
	Email       string              `yaml:"email"`
	Description string              `yaml:"description,omitempty"`
	Phone       string              `yaml:"phone,omitempty"`
	Website     string              `yaml:"website,omitempty"`
	Summary     string              `yaml:"summary,omitempty"`
	Location    starterLocation     `yaml:"location"`
	Social      map[string]social   `yaml:"social,omitempty"`
	Experiences []starterExperience `yaml:"experiences,omitempty"`
}

type starterLocation struct {
	Address     string `yaml:"address,omitempty"`
	PostalCode  string `yaml:"postal_code,omitempty"`
	City        string `yaml:"city,omitempty"`
	CountryCode string `yaml:"country_code,omitempty"`
	Region      string `yaml:"region,omitempty"`
}

type social struct {
	Username string `yaml:"username"`
	URL      string `yaml:"url"`
}

type starterCompany struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location,omitempty"`
}

type starterExperience struct {
	Company    starterCompany `yaml:"company"`
	Position   string         `yaml:"position"`
	StartDate  string         `yaml:"start_date"`
	Current    bool           `yaml:"current"`
	Highlights []string       `yaml:"highlights,omitempty"`
}

func main() {
	out := flag.String("out", "author.yaml", "destination data file")
	force := flag.Bool("force", false, "overwrite the destination if it exists")
	flag.Parse()

	if !*force {
		if _, err := os.Stat(*out); err == nil {
			log.Fatalf("%s already exists; use -force to overwrite", *out)
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("stat %s: %v", *out, err)
		}
	}

	doc, err := prompt()
	if err != nil {
		log.Fatalf("prompt failed: %v", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		log.Fatalf("encode data file: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("Starter data file written to %s\n", *out)
}

func prompt() (*starter, error) {
	doc := &starter{}

	identity := []*survey.Question{
		{Name: "name", Prompt: &survey.Input{Message: "Full name:"}, Validate: survey.Required},
		{Name: "email", Prompt: &survey.Input{Message: "Email:"}, Validate: survey.Required},
		{Name: "description", Prompt: &survey.Input{Message: "Headline, e.g. Software Engineer (optional):"}},
		{Name: "phone", Prompt: &survey.Input{Message: "Phone (optional):"}},
		{Name: "website", Prompt: &survey.Input{Message: "Website (optional):"}},
		{Name: "summary", Prompt: &survey.Multiline{Message: "Short professional summary (optional):"}},
	}
	if err := survey.Ask(identity, doc); err != nil {
		return nil, err
	}

	location := []*survey.Question{
		{Name: "city", Prompt: &survey.Input{Message: "City (optional):"}},
		{Name: "countrycode", Prompt: &survey.Input{Message: "Country code (optional):"}},
	}
	if err := survey.Ask(location, &doc.Location); err != nil {
		return nil, err
	}

	var github string
	if err := survey.AskOne(&survey.Input{Message: "GitHub username (optional):"}, &github); err != nil {
		return nil, err
	}
	if github != "" {
		doc.Social = map[string]social{
			"github": {Username: github, URL: "https://github.com/" + github},
		}
	}

	addExperience := false
	if err := survey.AskOne(&survey.Confirm{Message: "Add a first experience entry?", Default: true}, &addExperience); err != nil {
		return nil, err
	}
	if addExperience {
		exp, err := promptExperience()
		if err != nil {
			return nil, err
		}
		doc.Experiences = append(doc.Experiences, *exp)
	}

	return doc, nil
}

func promptExperience() (*starterExperience, error) {
	exp := &starterExperience{Current: true}

	questions := []*survey.Question{
		{Name: "position", Prompt: &survey.Input{Message: "Position / title:"}, Validate: survey.Required},
	}
	if err := survey.Ask(questions, exp); err != nil {
		return nil, err
	}
	if err := survey.AskOne(&survey.Input{Message: "Company name:"}, &exp.Company.Name, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Start date (YYYY-MM-DD):",
		Default: time.Now().Format("2006-01-02"),
	}, &exp.StartDate); err != nil {
		return nil, err
	}
	return exp, nil
}
