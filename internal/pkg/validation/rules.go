package validation

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Phone numbers: optional leading +, digits with spaces or dashes, 7 to 20 characters
	PhonePattern = `^\+?[0-9][0-9 \-]{5,18}[0-9]$`

	// Skills are short tags such as "go", "c++", "node.js" or "ci/cd"
	SkillPattern = `^[A-Za-z0-9][A-Za-z0-9.+#/ \-]*$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
	Skill *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
	Skill: regexp.MustCompile(SkillPattern),
}

// IsValidPhone reports whether s looks like a phone number
func IsValidPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

// IsValidSkill reports whether s is an acceptable skill tag
func IsValidSkill(s string) bool {
	return CompiledPatterns.Skill.MatchString(s)
}

// RegisterCustomValidators adds the "phone" and "skill" binding tags to gin's validator
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return IsValidSkill(fl.Field().String())
	})
}
