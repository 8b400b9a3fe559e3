package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"otc-reports/internal/aggregate"
	"otc-reports/internal/category"
	"otc-reports/internal/period"
	"otc-reports/internal/summary"
)

// recipeSpec is the YAML form of a summary recipe. Teams may name a built-in
// roster ("ctc", "preferred") or list team names inline.
type recipeSpec struct {
	Title       string            `yaml:"title"`
	DateField   string            `yaml:"date_field"`
	StatusField string            `yaml:"status_field"`
	Statuses    []string          `yaml:"statuses"`
	Roster      string            `yaml:"roster"`
	Teams       []string          `yaml:"teams"`
	FieldEquals map[string]string `yaml:"field_equals"`
	Granularity string            `yaml:"granularity"`
	Mode        string            `yaml:"mode"`
}

type recipeFile struct {
	Recipes []recipeSpec `yaml:"recipes"`
}

// LoadRecipes reads a YAML recipe file into summary recipes. The file
// replaces the built-in suite entirely; partial overrides are not a thing.
func LoadRecipes(path string) ([]summary.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes file: %w", err)
	}
	var file recipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse recipes file: %w", err)
	}
	if len(file.Recipes) == 0 {
		return nil, fmt.Errorf("recipes file %s defines no recipes", path)
	}

	recipes := make([]summary.Recipe, 0, len(file.Recipes))
	for i, spec := range file.Recipes {
		recipe, err := spec.toRecipe()
		if err != nil {
			return nil, fmt.Errorf("recipe %d (%q): %w", i, spec.Title, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func (s recipeSpec) toRecipe() (summary.Recipe, error) {
	if s.Title == "" {
		return summary.Recipe{}, fmt.Errorf("missing title")
	}
	if s.DateField == "" {
		return summary.Recipe{}, fmt.Errorf("missing date_field")
	}

	teams, err := resolveRoster(s.Roster, s.Teams)
	if err != nil {
		return summary.Recipe{}, err
	}
	granularity, err := parseGranularity(s.Granularity)
	if err != nil {
		return summary.Recipe{}, err
	}
	mode, err := parseMode(s.Mode)
	if err != nil {
		return summary.Recipe{}, err
	}

	cat := category.Any
	if len(s.Statuses) > 0 {
		cat = category.Category{Name: s.Title, Statuses: s.Statuses}
	}

	return summary.Recipe{
		Title:       s.Title,
		DateField:   s.DateField,
		StatusField: s.StatusField,
		Category:    cat,
		Teams:       teams,
		FieldEquals: s.FieldEquals,
		Granularity: granularity,
		Mode:        mode,
	}, nil
}

// resolveRoster maps a roster reference to team names: the built-in "ctc"
// and "preferred" rosters, a path to a single-column roster CSV, or an
// inline team list.
func resolveRoster(name string, inline []string) ([]string, error) {
	if name != "" && len(inline) > 0 {
		return nil, fmt.Errorf("roster and teams are mutually exclusive")
	}
	switch name {
	case "":
		return inline, nil
	case "ctc":
		return category.CTCTeams, nil
	case "preferred":
		return category.PreferredTeams, nil
	default:
		if strings.HasSuffix(name, ".csv") {
			return LoadRoster(name)
		}
		return nil, fmt.Errorf("unknown roster %q", name)
	}
}

func parseGranularity(s string) (period.Granularity, error) {
	switch s {
	case "", "monthly":
		return period.Monthly, nil
	case "semimonthly":
		return period.SemiMonthly, nil
	default:
		return period.Monthly, fmt.Errorf("unknown granularity %q", s)
	}
}

func parseMode(s string) (aggregate.Mode, error) {
	switch s {
	case "", "bucket":
		return aggregate.ModeBucket, nil
	case "shift_back":
		return aggregate.ModeShiftBack, nil
	case "rest_of_year":
		return aggregate.ModeRestOfYear, nil
	default:
		return aggregate.ModeBucket, fmt.Errorf("unknown mode %q", s)
	}
}
