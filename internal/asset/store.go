// Package asset stores field background images for drawings.
package asset

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/typeid"
)

var ErrNotFound = errors.New("asset not found")

// Asset describes a stored image.
type Asset struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name,omitempty"`
}

// Store keeps images as PNG files named by asset ID. Images wider than
// maxWidth are scaled down on the way in.
type Store struct {
	dir      string
	maxWidth int
}

func NewStore(dir string, maxWidth int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Store{dir: dir, maxWidth: maxWidth}, nil
}

func (s *Store) Save(img image.Image) (Asset, error) {
	img = s.fit(img)

	id := typeid.NewAssetID()
	path := s.path(id)

	out, err := os.Create(path)
	if err != nil {
		return Asset{}, fmt.Errorf("create asset file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return Asset{}, fmt.Errorf("encode png: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return Asset{}, fmt.Errorf("write asset file: %w", err)
	}

	b := img.Bounds()
	return Asset{
		ID:     id,
		URL:    "/assets/" + id + ".png",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Open decodes the stored image of id.
func (s *Store) Open(id string) (image.Image, error) {
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", id, err)
	}
	return img, nil
}

func (s *Store) Delete(id string) error {
	if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
		return ErrNotFound
	}
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".png")
}

func (s *Store) fit(img image.Image) image.Image {
	b := img.Bounds()
	if s.maxWidth <= 0 || b.Dx() <= s.maxWidth {
		return img
	}
	h := max(1, b.Dy()*s.maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
