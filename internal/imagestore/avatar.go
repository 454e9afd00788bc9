package imagestore

import (
	"fmt"
	"math/rand"

	"inkwell/internal/models"
)

// randomAvatarStyles is the number of ready-made avatars per gender on the
// public avatar service.
const randomAvatarStyles = 100

// RandomAvatarURL picks a ready-made avatar image for the gender. The
// service hosts numbered variants, so a random index gives each user a
// different face.
func RandomAvatarURL(gender models.Gender) string {
	n := rand.Intn(randomAvatarStyles) + 1
	switch gender {
	case models.GenderMale:
		return fmt.Sprintf("https://avatar.iran.liara.run/public/boy?id=%d", n)
	case models.GenderFemale:
		return fmt.Sprintf("https://avatar.iran.liara.run/public/girl?id=%d", n)
	default:
		return fmt.Sprintf("https://avatar.iran.liara.run/public?id=%d", n)
	}
}
