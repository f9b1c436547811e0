package validation

import (
	"github.com/asaskevich/govalidator"

	"github.com/ayush/devconnector/backend/internal/models"
)

// Register checks a registration body.
func Register(in models.RegisterRequest) Result {
	c := newChecker()

	if c.required("name", in.Name, "Name field is required") {
		c.length("name", in.Name, 2, 30, "Name must be between 2 and 30 characters")
	}
	if c.required("email", in.Email, "Email field is required") && !govalidator.IsEmail(in.Email) {
		c.fail("email", "Email is invalid")
	}
	if c.required("password", in.Password, "Password field is required") {
		c.length("password", in.Password, 6, 30, "Password must be between 6 and 30 characters")
	}
	if c.required("password2", in.Password2, "Confirm password field is required") && in.Password != in.Password2 {
		c.fail("password2", "Passwords must match")
	}
	return c.result()
}

// Login checks a login body.
func Login(in models.LoginRequest) Result {
	c := newChecker()

	if c.required("email", in.Email, "Email field is required") && !govalidator.IsEmail(in.Email) {
		c.fail("email", "Email is invalid")
	}
	c.required("password", in.Password, "Password field is required")
	return c.result()
}

// Profile checks a create-or-update profile body.
func Profile(in models.ProfileRequest) Result {
	c := newChecker()

	if c.required("handle", in.Handle, "Profile handle is required") {
		c.length("handle", in.Handle, 2, 40, "Handle needs to be between 2 and 40 characters")
	}
	c.required("status", in.Status, "Status field is required")

	c.url("website", in.Website)
	c.url("youtube", in.YouTube)
	c.url("twitter", in.Twitter)
	c.url("facebook", in.Facebook)
	c.url("linkedin", in.LinkedIn)
	c.url("instagram", in.Instagram)
	return c.result()
}

// Experience checks an add-experience body.
func Experience(in models.ExperienceRequest) Result {
	c := newChecker()

	c.required("title", in.Title, "Job title field is required")
	c.required("company", in.Company, "Company field is required")
	dateRange(c, in.From, in.To, in.Current)
	return c.result()
}

// Education checks an add-education body.
func Education(in models.EducationRequest) Result {
	c := newChecker()

	c.required("school", in.School, "School field is required")
	c.required("degree", in.Degree, "Degree field is required")
	c.required("fieldofstudy", in.FieldOfStudy, "Field of study field is required")
	dateRange(c, in.From, in.To, in.Current)
	return c.result()
}

func dateRange(c *checker, from, to string, current bool) {
	if c.required("from", from, "From date field is required") {
		c.date("from", from, "From date is invalid")
	}
	if !current {
		c.required("to", to, "To date is required unless this is current")
	}
	c.date("to", to, "To date is invalid")
}

// Post checks a post or comment body.
func Post(in models.PostRequest) Result {
	c := newChecker()

	if c.required("text", in.Text, "Text field is required") {
		c.length("text", in.Text, 10, 300, "Post must be between 10 and 300 characters")
	}
	return c.result()
}
