package gallery

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validImage() Image {
	return Image{
		ID:        "img-1",
		Title:     "Operação Centro",
		Filename:  "/uploads/gallery/img-1.jpg",
		Category:  CategoryOperacoes,
		CreatedAt: time.Now(),
	}
}

// TestImage_Validate_Valid tests that a populated image passes validation.
func TestImage_Validate_Valid(t *testing.T) {
	img := validImage()
	if err := img.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestImage_Validate_EmptyTitle tests that a blank title is rejected.
func TestImage_Validate_EmptyTitle(t *testing.T) {
	img := validImage()
	img.Title = "   "
	if err := img.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("got %v, want ErrEmptyTitle", err)
	}
}

// TestImage_Validate_TitleTooLong tests the title length limit.
func TestImage_Validate_TitleTooLong(t *testing.T) {
	img := validImage()
	img.Title = strings.Repeat("a", MaxTitleLength+1)
	if err := img.Validate(); !errors.Is(err, ErrTitleTooLong) {
		t.Errorf("got %v, want ErrTitleTooLong", err)
	}
}

// TestImage_Validate_InvalidCategory tests that categories outside the enum are rejected.
func TestImage_Validate_InvalidCategory(t *testing.T) {
	for _, c := range []string{"", "eventos", "OPERACOES"} {
		img := validImage()
		img.Category = c
		if err := img.Validate(); !errors.Is(err, ErrInvalidCategory) {
			t.Errorf("category %q: got %v, want ErrInvalidCategory", c, err)
		}
	}
}

// TestImage_Validate_MissingFile tests that an image needs a filename.
func TestImage_Validate_MissingFile(t *testing.T) {
	img := validImage()
	img.Filename = ""
	if err := img.Validate(); !errors.Is(err, ErrEmptyFilename) {
		t.Errorf("got %v, want ErrEmptyFilename", err)
	}
}

// TestImage_HasUploadedFile tests detection of files we manage.
func TestImage_HasUploadedFile(t *testing.T) {
	img := validImage()
	if !img.HasUploadedFile() {
		t.Error("expected uploads path to be detected")
	}
	img.Filename = "https://cdn.example.com/foto.jpg"
	if img.HasUploadedFile() {
		t.Error("external URL must not be treated as an uploaded file")
	}
}
