package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/storage"
)

type recordingImages struct {
	keys []string
}

func (r *recordingImages) Save(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	r.keys = append(r.keys, key)
	return "/static/" + key, nil
}

func strPtr(s string) *string { return &s }

func validProfile(username string) ProfileInput {
	return ProfileInput{
		Username:  strPtr(username),
		FirstName: strPtr("First"),
		LastName:  strPtr("Last"),
		BirthDate: strPtr("1990-05-17"),
	}
}

func TestCreateProfile(t *testing.T) {
	f := newFixture()
	svc := NewProfileService(f.st, nil, nil)
	u := &models.User{Email: "a@example.com"}
	require.NoError(t, f.st.CreateUser(f.ctx, u))

	p, err := svc.CreateProfile(f.ctx, u.ID, validProfile("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, 1990, p.BirthDate.Year())

	_, err = svc.CreateProfile(f.ctx, u.ID, validProfile("other"))
	assert.ErrorIs(t, err, ErrConflict)

	v := &models.User{Email: "b@example.com"}
	require.NoError(t, f.st.CreateUser(f.ctx, v))
	_, err = svc.CreateProfile(f.ctx, v.ID, validProfile("alice"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateProfileValidation(t *testing.T) {
	f := newFixture()
	svc := NewProfileService(f.st, nil, nil)

	in := validProfile("alice")
	in.FirstName = strPtr("")
	_, err := svc.CreateProfile(f.ctx, 1, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = validProfile("alice")
	in.BirthDate = strPtr("17/05/1990")
	_, err = svc.CreateProfile(f.ctx, 1, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = validProfile(strings.Repeat("a", maxNameLength+1))
	_, err = svc.CreateProfile(f.ctx, 1, in)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestProfileOwnerOnly(t *testing.T) {
	f := newFixture()
	images := &recordingImages{}
	svc := NewProfileService(f.st, images, nil)
	a, aProfile := f.account(t, "alice")
	b, _ := f.account(t, "bob")

	_, err := svc.UpdateProfile(f.ctx, b, aProfile, ProfileInput{Description: strPtr("pwned")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteProfile(f.ctx, b, aProfile), ErrForbidden)

	up := Upload{Filename: "me.PNG", ContentType: "image/png", Body: strings.NewReader("png")}
	_, err = svc.UploadImage(f.ctx, b, aProfile, up)
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := svc.UpdateProfile(f.ctx, a, aProfile, ProfileInput{Description: strPtr("<b>hi</b> there")})
	require.NoError(t, err)
	assert.Equal(t, "hi there", p.Description)

	p, err = svc.UploadImage(f.ctx, a, aProfile, up)
	require.NoError(t, err)
	require.Len(t, images.keys, 1)
	assert.True(t, strings.HasPrefix(images.keys[0], storage.ProfileImages+"/alice-"))
	assert.True(t, strings.HasSuffix(images.keys[0], ".png"))
	assert.Equal(t, "/static/"+images.keys[0], p.Image)

	require.NoError(t, svc.DeleteProfile(f.ctx, a, aProfile))
	_, err = f.st.GetProfile(f.ctx, aProfile)
	assert.Error(t, err)
}

func TestUploadRejectsNonImages(t *testing.T) {
	f := newFixture()
	a, aProfile := f.account(t, "alice")

	svc := NewProfileService(f.st, &recordingImages{}, nil)
	_, err := svc.UploadImage(f.ctx, a, aProfile, Upload{Filename: "x.txt", ContentType: "text/plain", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalid)

	disabled := NewProfileService(f.st, nil, nil)
	_, err = disabled.UploadImage(f.ctx, a, aProfile, Upload{Filename: "x.png", ContentType: "image/png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}
