// Package diagram renders a board.Position as a raster image.
//
// The board and piece discs are described as SVG and rasterized with
// oksvg/rasterx; piece letters and coordinates are drawn on top with the Go
// fonts.
package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mayhemheroes/chess-rs/internal/board"
)

// MinSize is the smallest diagram edge Render accepts, in pixels.
const MinSize = 64

// ErrSize is returned for diagrams smaller than MinSize.
var ErrSize = errors.New("diagram too small")

// Options control the look of a diagram.
type Options struct {
	Size        int  // edge length in pixels
	Flip        bool // draw from Black's side
	Coordinates bool // label files and ranks
}

// DefaultOptions returns a 480px diagram from White's side with coordinates.
func DefaultOptions() Options {
	return Options{Size: 480, Coordinates: true}
}

// Board and piece colors.
var (
	LightSquare = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	DarkSquare  = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	WhitePiece  = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	BlackPiece  = color.RGBA{0x30, 0x30, 0x30, 0xff}
	Outline     = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

// Geometry of the SVG user space: one square is 100 units.
const (
	unit        = 100
	discRadius  = 38
	strokeWidth = 3
)

// Render draws pos into a new RGBA image of opts.Size pixels square.
func Render(pos *board.Position, opts Options) (*image.RGBA, error) {
	if opts.Size < MinSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrSize, opts.Size, MinSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(boardSVG(pos, opts.Flip)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}

	size := opts.Size
	icon.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	cell := float64(size) / 8

	if err := drawLetters(rgba, pos, opts.Flip, cell, f.bold); err != nil {
		return nil, err
	}
	if opts.Coordinates {
		if err := drawCoordinates(rgba, opts.Flip, cell, f.regular); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"size": size,
		"flip": opts.Flip,
	}).Debug("rendered diagram")
	return rgba, nil
}

// WritePNG renders pos and encodes it as PNG to w.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Render(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG renders pos into the PNG file at path.
func SavePNG(path string, pos *board.Position, opts Options) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, pos, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// cellOrigin returns the column and row (0 = top left) sq is drawn at.
func cellOrigin(sq board.Square, flip bool) (col, row int) {
	col, row = sq.File(), 7-sq.Rank()
	if flip {
		col, row = 7-col, 7-row
	}
	return col, row
}

func isLight(sq board.Square) bool {
	return (sq.File()+sq.Rank())%2 == 1
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// boardSVG describes the squares and piece discs of pos.
func boardSVG(pos *board.Position, flip bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, 8*unit, 8*unit)

	for sq := board.A1; sq <= board.H8; sq++ {
		col, row := cellOrigin(sq, flip)
		fill := DarkSquare
		if isLight(sq) {
			fill = LightSquare
		}
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
			col*unit, row*unit, unit, unit, hex(fill))
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		col, row := cellOrigin(sq, flip)
		fill := WhitePiece
		if piece.Color() == board.Black {
			fill = BlackPiece
		}
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			col*unit+unit/2, row*unit+unit/2, discRadius, hex(fill), hex(Outline), strokeWidth)
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// drawLetters writes the piece letter centered on every occupied square.
func drawLetters(dst *image.RGBA, pos *board.Position, flip bool, cell float64, f *opentype.Font) error {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cell * 0.45,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("piece face: %w", err)
	}
	defer face.Close()

	ascent := face.Metrics().CapHeight
	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}
		ink := BlackPiece
		if piece.Color() == board.Black {
			ink = WhitePiece
		}
		letter := strings.ToUpper(string(piece.Type().Char()))

		d := &font.Drawer{Dst: dst, Src: image.NewUniform(ink), Face: face}
		col, row := cellOrigin(sq, flip)
		cx := fixed.I(int((float64(col) + 0.5) * cell))
		cy := fixed.I(int((float64(row) + 0.5) * cell))
		d.Dot = fixed.Point26_6{
			X: cx - d.MeasureString(letter)/2,
			Y: cy + ascent/2,
		}
		d.DrawString(letter)
	}
	return nil
}

// drawCoordinates labels the bottom row with files and the left column
// with ranks, in the color of the opposite square shade.
func drawCoordinates(dst *image.RGBA, flip bool, cell float64, f *opentype.Font) error {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cell * 0.18,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("coordinate face: %w", err)
	}
	defer face.Close()

	pad := cell * 0.05
	ascent := face.Metrics().Ascent

	for i := 0; i < 8; i++ {
		// files along the bottom row
		sq := board.NewSquare(i, 0)
		if flip {
			sq = board.NewSquare(7-i, 7)
		}
		label := string(rune('a' + sq.File()))
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor(sq)), Face: face}
		right := fixed.I(int(float64(i+1)*cell - pad))
		d.Dot = fixed.Point26_6{
			X: right - d.MeasureString(label),
			Y: fixed.I(int(8*cell - pad)),
		}
		d.DrawString(label)

		// ranks down the left column
		sq = board.NewSquare(0, 7-i)
		if flip {
			sq = board.NewSquare(7, i)
		}
		label = string(rune('1' + sq.Rank()))
		d = &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor(sq)), Face: face}
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(pad)),
			Y: fixed.I(int(float64(i)*cell+pad)) + ascent,
		}
		d.DrawString(label)
	}
	return nil
}

func labelColor(sq board.Square) color.RGBA {
	if isLight(sq) {
		return DarkSquare
	}
	return LightSquare
}

type fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var loadFonts = sync.OnceValues(func() (fonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fonts{}, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return fonts{}, fmt.Errorf("parse bold font: %w", err)
	}
	return fonts{regular: regular, bold: bold}, nil
})
