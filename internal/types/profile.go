package types

import "strings"

// UserProfile is the applicant's data. The hunting pipeline only reads it.
type UserProfile struct {
	ID         string       `json:"id" yaml:"id"`
	FirstName  string       `json:"first_name" yaml:"firstName" validate:"required"`
	LastName   string       `json:"last_name" yaml:"lastName" validate:"required"`
	Contact    Contact      `json:"contact" yaml:"contact"`
	Skills     []string     `json:"skills" yaml:"skills"`
	Experience []Experience `json:"experience" yaml:"experience"`
	Education  []Education  `json:"education" yaml:"education"`
	ResumePath string       `json:"resume_path" yaml:"resumePath"`
}

// Contact holds the applicant's contact block.
type Contact struct {
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	Phone    string `json:"phone" yaml:"phone"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin"`
	GitHub   string `json:"github,omitempty" yaml:"github"`
	Website  string `json:"website,omitempty" yaml:"website"`
	Location string `json:"location,omitempty" yaml:"location"`
}

// Experience is a single position held by the applicant.
type Experience struct {
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	StartDate   string `json:"start_date" yaml:"startDate"`
	EndDate     string `json:"end_date,omitempty" yaml:"endDate"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Education is a single degree or program.
type Education struct {
	Degree         string `json:"degree" yaml:"degree"`
	School         string `json:"school" yaml:"school"`
	Field          string `json:"field,omitempty" yaml:"field"`
	GraduationYear string `json:"graduation_year,omitempty" yaml:"graduationYear"`
}

// Canonical profile attribute names used by FormField.ProfileMapping.
const (
	AttrFirstName  = "firstName"
	AttrLastName   = "lastName"
	AttrFullName   = "fullName"
	AttrEmail      = "email"
	AttrPhone      = "phone"
	AttrLinkedIn   = "linkedin"
	AttrGitHub     = "github"
	AttrWebsite    = "website"
	AttrLocation   = "location"
	AttrResumePath = "resumePath"
)

// FullName joins first and last name.
func (p *UserProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Attribute returns the value of a canonical profile attribute.
// Unknown names return "" and false.
func (p *UserProfile) Attribute(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "firstname":
		return p.FirstName, true
	case "lastname":
		return p.LastName, true
	case "fullname", "name":
		return p.FullName(), true
	case "email":
		return p.Contact.Email, true
	case "phone":
		return p.Contact.Phone, true
	case "linkedin":
		return p.Contact.LinkedIn, true
	case "github":
		return p.Contact.GitHub, true
	case "website", "portfolio":
		return p.Contact.Website, true
	case "location", "city", "address":
		return p.Contact.Location, true
	case "resumepath", "resume":
		return p.ResumePath, true
	default:
		return "", false
	}
}

// Summary renders a bounded plain-text description of the profile for model prompts.
func (p *UserProfile) Summary(maxChars int) string {
	var sb strings.Builder
	sb.WriteString("Name: " + p.FullName() + "\n")
	if p.Contact.Location != "" {
		sb.WriteString("Location: " + p.Contact.Location + "\n")
	}
	if len(p.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(p.Skills, ", ") + "\n")
	}
	for _, exp := range p.Experience {
		line := "- " + exp.Title + " at " + exp.Company
		if exp.StartDate != "" {
			end := exp.EndDate
			if end == "" {
				end = "present"
			}
			line += " (" + exp.StartDate + " - " + end + ")"
		}
		sb.WriteString(line + "\n")
	}
	for _, edu := range p.Education {
		sb.WriteString("- " + edu.Degree + " " + edu.Field + ", " + edu.School + "\n")
	}
	return Truncate(sb.String(), maxChars)
}

// Truncate cuts s to at most maxChars runes. A non-positive limit returns s unchanged.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
