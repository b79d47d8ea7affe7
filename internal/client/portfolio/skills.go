package portfolio

import (
	"encoding/json"
	"os"

	"github.com/deokslife/portfolio-api/internal/models"
)

const skillsFile = "portfolio_skills.json"

// SkillsStore keeps the skills panel in a local JSON file. There is no
// remote copy; saving replaces all four lists atomically, gated through the
// server's password check.
type SkillsStore struct {
	path   string
	client *Client
}

// NewSkillsStore creates a store at path, defaulting to
// portfolio_skills.json in the working directory.
func NewSkillsStore(path string, client *Client) *SkillsStore {
	if path == "" {
		path = skillsFile
	}
	return &SkillsStore{path: path, client: client}
}

// Load reads the stored skills. A missing file yields empty lists.
func (s *SkillsStore) Load() (models.Skills, error) {
	var skills models.Skills
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return skills, nil
		}
		return skills, err
	}
	if err := json.Unmarshal(data, &skills); err != nil {
		return models.Skills{}, err
	}
	return skills, nil
}

// Save verifies the admin password remotely (cached value first, then the
// entered one) and replaces the whole skills file.
func (s *SkillsStore) Save(skills models.Skills, adminPassword string) error {
	ok, err := s.client.VerifyAdmin(adminPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	data, err := json.MarshalIndent(skills, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
