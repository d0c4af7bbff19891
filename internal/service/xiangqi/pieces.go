package xiangqi

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

type pieceCacheKey struct {
	piece core.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	boardCache   = map[int]image.Image{}
	pieceCacheMu sync.RWMutex
)

func rasterizeSVG(data []byte, w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(w)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(h)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

func renderPieceImage(piece core.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	img, err := rasterizeSVG(pieceSVG(piece, size), size, size)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", piece, err)
	}
	stampLetter(img, piece)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

func stampLetter(img *image.RGBA, piece core.Piece) {
	ink := redInk
	if piece.Side == core.Black {
		ink = blackInk
	}
	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	drawCenteredString(drawer, img.Bounds(), string(rune(piece.Kind.Letter())), ink)
}

func renderBoardImage(g boardGeometry) (image.Image, error) {
	pieceCacheMu.RLock()
	if img, ok := boardCache[g.cell]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	img, err := rasterizeSVG(boardSVG(g), g.width(), g.height())
	if err != nil {
		return nil, fmt.Errorf("render board: %w", err)
	}

	pieceCacheMu.Lock()
	boardCache[g.cell] = img
	pieceCacheMu.Unlock()
	return img, nil
}
