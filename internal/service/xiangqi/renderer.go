package xiangqi

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultCellSize = 64
	MinCellSize     = 24
	MaxCellSize     = 160
)

type MoveHighlight struct {
	From core.Coord
	To   core.Coord
}

type RenderOptions struct {
	Highlight *MoveHighlight
	Targets   []core.Coord
	HUDHeader string
	HUDTurn   string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *core.Board, opts RenderOptions) ([]byte, error)
}

type svgBoardRenderer struct {
	cell int
}

// NewSVGBoardRenderer returns a renderer drawing cellSize pixels between
// neighbouring intersections. Out-of-range sizes fall back to the default.
func NewSVGBoardRenderer(cellSize int) BoardRenderer {
	if cellSize < MinCellSize || cellSize > MaxCellSize {
		cellSize = DefaultCellSize
	}
	return &svgBoardRenderer{cell: cellSize}
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, board *core.Board, opts RenderOptions) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}

	const (
		sideMargin           = 32
		bottomMargin         = 32
		titleHeight          = 30
		secondaryPanelHeight = 24
		gapBetweenPanels     = 8
		gapToBoard           = 14
		panelRadius          = 10
		titlePaddingX        = 20
		turnPaddingX         = 16
		titleMinWidth        = 200
		turnMinWidth         = 120
		shadowOffsetY        = 4
	)
	topMargin := titleHeight + secondaryPanelHeight + gapBetweenPanels + gapToBoard + 12

	g := newBoardGeometry(r.cell)
	totalWidth := g.width() + sideMargin*2
	totalHeight := g.height() + topMargin + bottomMargin
	boardRect := image.Rect(sideMargin, topMargin, sideMargin+g.width(), topMargin+g.height())

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(canvasColor), image.Point{}, imagedraw.Src)

	drawHUD(img, opts, boardRect, panelRadius, titleHeight, secondaryPanelHeight, gapBetweenPanels, gapToBoard,
		titlePaddingX, turnPaddingX, titleMinWidth, turnMinWidth, shadowOffsetY)
	drawBoardShadow(img, boardRect)

	bg, err := renderBoardImage(g)
	if err != nil {
		return nil, err
	}
	imagedraw.Draw(img, boardRect, bg, image.Point{}, imagedraw.Over)

	origin := boardRect.Min
	if opts.Highlight != nil {
		drawRing(img, intersection(g, origin, opts.Highlight.From), r.cell*9/20, r.cell/16+1, highlightColor)
	}
	if err := drawPieces(img, board, g, origin); err != nil {
		return nil, err
	}
	if opts.Highlight != nil {
		drawRing(img, intersection(g, origin, opts.Highlight.To), r.cell*9/20+2, r.cell/16+1, highlightColor)
	}
	for _, t := range opts.Targets {
		if !t.Valid() {
			continue
		}
		center := intersection(g, origin, t)
		if board.Occupied(t) {
			drawRing(img, center, r.cell*9/20+2, r.cell/20+1, targetColor)
			continue
		}
		drawDisc(img, center, max(3, r.cell/10), targetColor)
	}

	drawCoordinates(img, g, origin, sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

var (
	canvasColor         = color.RGBA{R: 36, G: 30, B: 26, A: 255}
	boardShadowColor    = color.NRGBA{0, 0, 0, 70}
	highlightColor      = color.NRGBA{R: 255, G: 214, B: 64, A: 220}
	targetColor         = color.NRGBA{R: 40, G: 170, B: 96, A: 200}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor   = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor      = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateTextColor = color.NRGBA{R: 232, G: 196, B: 140, A: 255}
	redInk              = color.NRGBA{R: 179, G: 38, B: 30, A: 255}
	blackInk            = color.NRGBA{R: 31, G: 31, B: 31, A: 255}
)

func intersection(g boardGeometry, origin image.Point, c core.Coord) image.Point {
	x, y := g.point(c)
	return image.Pt(origin.X+x, origin.Y+y)
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	if img == nil {
		return
	}
	shadowRect := image.Rect(boardRect.Min.X+4, boardRect.Min.Y+6, boardRect.Max.X+8, boardRect.Max.Y+10)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawPieces(dst *image.RGBA, board *core.Board, g boardGeometry, origin image.Point) error {
	size := g.cell * 9 / 10
	for _, o := range board.Pieces(core.NoSide) {
		pimg, err := renderPieceImage(o.Piece, size)
		if err != nil {
			return err
		}
		center := intersection(g, origin, o.At)
		rect := image.Rect(center.X-size/2, center.Y-size/2, center.X-size/2+size, center.Y-size/2+size)
		imagedraw.Draw(dst, rect, pimg, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawHUD(
	img *image.RGBA,
	opts RenderOptions,
	boardRect image.Rectangle,
	radius,
	titleHeight,
	secondaryPanelHeight,
	gapBetweenPanels,
	gapToBoard,
	titlePaddingX,
	turnPaddingX,
	titleMinWidth,
	turnMinWidth,
	shadowOffsetY int,
) {
	if img == nil {
		return
	}
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face}

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "Red vs Black"
	}
	turnText := strings.TrimSpace(opts.HUDTurn)
	if turnText == "" {
		turnText = "Turn"
	}

	turnBottom := boardRect.Min.Y - gapToBoard
	turnTop := turnBottom - secondaryPanelHeight
	titleBottom := turnTop - gapBetweenPanels
	titleTop := titleBottom - titleHeight

	titleWidth := max(titleMinWidth, drawer.MeasureString(title).Round()+titlePaddingX*2)
	titleWidth = min(titleWidth, boardRect.Dx())
	turnWidth := max(turnMinWidth, drawer.MeasureString(turnText).Round()+turnPaddingX*2)
	turnWidth = min(turnWidth, boardRect.Dx())

	titleLeft := boardRect.Min.X + (boardRect.Dx()-titleWidth)/2
	titleRect := image.Rect(titleLeft, titleTop, titleLeft+titleWidth, titleBottom)
	turnLeft := boardRect.Min.X + (boardRect.Dx()-turnWidth)/2
	turnRect := image.Rect(turnLeft, turnTop, turnLeft+turnWidth, turnBottom)

	drawRoundedPanel(img, titleRect.Add(image.Pt(0, shadowOffsetY)), radius, hudShadowColor)
	drawRoundedPanel(img, turnRect.Add(image.Pt(0, shadowOffsetY)), radius, hudShadowColor)

	title = truncateWithEllipsis(face, title, titleRect.Dx()-titlePaddingX*2)
	turnText = truncateWithEllipsis(face, turnText, turnRect.Dx()-turnPaddingX*2)

	drawRoundedPanel(img, titleRect, radius, hudPanelColor)
	drawRoundedPanel(img, turnRect, radius, hudTurnPanelColor)

	drawCenteredString(drawer, titleRect, title, hudTextPrimary)
	drawCenteredString(drawer, turnRect, turnText, hudTurnTextColor)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	radius = max(0, min(radius, rect.Dx()/2, rect.Dy()/2))
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	// Disjoint strips so the translucent fill is not applied twice.
	middle := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	top := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Min.Y+radius)
	bottom := image.Rect(rect.Min.X+radius, rect.Max.Y-radius, rect.Max.X-radius, rect.Max.Y)
	for _, r := range []image.Rectangle{middle, top, bottom} {
		if !r.Empty() {
			imagedraw.Draw(img, r, fill, image.Point{}, imagedraw.Over)
		}
	}

	type corner struct {
		square image.Rectangle
		cx, cy float64
	}
	fr := float64(radius)
	corners := []corner{
		{image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+radius, rect.Min.Y+radius), float64(rect.Min.X) + fr, float64(rect.Min.Y) + fr},
		{image.Rect(rect.Max.X-radius, rect.Min.Y, rect.Max.X, rect.Min.Y+radius), float64(rect.Max.X) - fr, float64(rect.Min.Y) + fr},
		{image.Rect(rect.Min.X, rect.Max.Y-radius, rect.Min.X+radius, rect.Max.Y), float64(rect.Min.X) + fr, float64(rect.Max.Y) - fr},
		{image.Rect(rect.Max.X-radius, rect.Max.Y-radius, rect.Max.X, rect.Max.Y), float64(rect.Max.X) - fr, float64(rect.Max.Y) - fr},
	}
	for _, c := range corners {
		for y := c.square.Min.Y; y < c.square.Max.Y; y++ {
			for x := c.square.Min.X; x < c.square.Max.X; x++ {
				dx := float64(x) + 0.5 - c.cx
				dy := float64(y) + 0.5 - c.cy
				if dx*dx+dy*dy > fr*fr {
					continue
				}
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := max(rect.Min.X, rect.Min.X+(rect.Dx()-width)/2)
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

// drawCoordinates labels files under the board and ranks on its left.
func drawCoordinates(dst *image.RGBA, g boardGeometry, origin image.Point, margin int) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()

	for f := 0; f < core.Files; f++ {
		p := intersection(g, origin, core.C(f, core.Ranks-1))
		drawCenteredText(drawer, strconv.Itoa(f), p.X, origin.Y+g.height()+ascent+4)
	}
	for r := 0; r < core.Ranks; r++ {
		p := intersection(g, origin, core.C(0, r))
		drawCenteredText(drawer, strconv.Itoa(r), origin.X-margin/2, p.Y+ascent/2)
	}
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func drawRing(img *image.RGBA, center image.Point, radius, thickness int, clr color.Color) {
	outer := radius * radius
	inner := max(0, radius-thickness)
	inner *= inner
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := x*x + y*y
			if d > outer || d < inner {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil {
		return
	}
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	dstA := float64(dst.A) / 255.0
	dstR := float64(dst.R) / 255.0
	dstG := float64(dst.G) / 255.0
	dstB := float64(dst.B) / 255.0

	// Premultiplied source-over.
	outA := srcA + dstA*(1-srcA)
	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8((srcR + dstR*(1-srcA)) * 255.0),
		G: floatToUint8((srcG + dstG*(1-srcA)) * 255.0),
		B: floatToUint8((srcB + dstB*(1-srcA)) * 255.0),
		A: floatToUint8(outA * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
