package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Social holds the optional social network links of a profile.
type Social struct {
	YouTube   string `json:"youtube,omitempty"   bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"   bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"  bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"  bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// Experience is a single job entry on a profile.
type Experience struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id"`
	Title       string             `json:"title"       bson:"title"`
	Company     string             `json:"company"     bson:"company"`
	Location    string             `json:"location"    bson:"location,omitempty"`
	From        time.Time          `json:"from"        bson:"from"`
	To          *time.Time         `json:"to"          bson:"to,omitempty"`
	Current     bool               `json:"current"     bson:"current"`
	Description string             `json:"description" bson:"description,omitempty"`
}

// Education is a single school entry on a profile.
type Education struct {
	ID           primitive.ObjectID `json:"_id"          bson:"_id"`
	School       string             `json:"school"       bson:"school"`
	Degree       string             `json:"degree"       bson:"degree"`
	FieldOfStudy string             `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time          `json:"from"         bson:"from"`
	To           *time.Time         `json:"to"           bson:"to,omitempty"`
	Current      bool               `json:"current"      bson:"current"`
	Description  string             `json:"description"  bson:"description,omitempty"`
}

// Profile is the professional profile owned by exactly one user.
// User is populated at read time from the user store.
type Profile struct {
	ID             primitive.ObjectID `json:"_id"            bson:"_id,omitempty"`
	UserID         string             `json:"-"              bson:"user"`
	User           *UserRef           `json:"user"           bson:"-"`
	Handle         string             `json:"handle"         bson:"handle"`
	Company        string             `json:"company"        bson:"company,omitempty"`
	Website        string             `json:"website"        bson:"website,omitempty"`
	Location       string             `json:"location"       bson:"location,omitempty"`
	Bio            string             `json:"bio"            bson:"bio,omitempty"`
	Status         string             `json:"status"         bson:"status"`
	GitHubUsername string             `json:"githubusername" bson:"githubusername,omitempty"`
	Skills         []string           `json:"skills"         bson:"skills"`
	Social         Social             `json:"social"         bson:"social"`
	Experience     []Experience       `json:"experience"     bson:"experience"`
	Education      []Education        `json:"education"      bson:"education"`
	Date           time.Time          `json:"date"           bson:"date"`
}

// SkillList accepts either a comma separated string or a JSON array.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = trimSkills(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = trimSkills(strings.Split(raw, ","))
	return nil
}

func trimSkills(in []string) SkillList {
	out := make(SkillList, 0, len(in))
	for _, skill := range in {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

// ProfileRequest is the JSON body for POST /api/profile. Empty fields are
// treated as absent and left untouched on update.
type ProfileRequest struct {
	Handle         string    `json:"handle"`
	Company        string    `json:"company"`
	Website        string    `json:"website"`
	Location       string    `json:"location"`
	Bio            string    `json:"bio"`
	Status         string    `json:"status"`
	GitHubUsername string    `json:"githubusername"`
	Skills         SkillList `json:"skills"`
	YouTube        string    `json:"youtube"`
	Twitter        string    `json:"twitter"`
	Facebook       string    `json:"facebook"`
	LinkedIn       string    `json:"linkedin"`
	Instagram      string    `json:"instagram"`
}

// ExperienceRequest is the JSON body for POST /api/profile/experience.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationRequest is the JSON body for POST /api/profile/education.
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}
