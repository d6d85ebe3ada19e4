package waveform

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPathPoints is the number of points GenerateSmoothPath samples when
// the caller has no preference.
const DefaultPathPoints = 200

type point struct{ x, y float64 }

// GenerateSmoothPath samples targetPoints amplitudes from the window and
// joins them into a vector path of M, Q and L commands. Each interior
// point is a quadratic control point whose curve ends halfway to the next
// point; the final point is reached with a straight line. An empty string
// means no sample in the window was inside the buffer.
func GenerateSmoothPath(peaks []float64, bounds ChunkBounds, width, height float64, targetPoints int) string {
	if targetPoints < 1 {
		targetPoints = DefaultPathPoints
	}

	stride := bounds.SampleCount() / targetPoints
	if stride < 1 {
		stride = 1
	}

	span := float64(targetPoints - 1)
	if span < 1 {
		span = 1
	}

	points := make([]point, 0, targetPoints)
	for i := 0; i < targetPoints; i++ {
		idx := bounds.StartSample + i*stride
		if idx >= len(peaks) {
			break
		}
		if idx < 0 {
			continue
		}
		amplitude := math.Abs(peaks[idx])
		points = append(points, point{
			x: float64(i) / span * width,
			y: height/2 - amplitude*(height/2)*visualRange,
		})
	}
	if len(points) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("M ")
	writePoint(&sb, points[0])
	for i := 1; i < len(points)-1; i++ {
		cur, next := points[i], points[i+1]
		mid := point{x: (cur.x + next.x) / 2, y: (cur.y + next.y) / 2}
		sb.WriteString(" Q ")
		writePoint(&sb, cur)
		sb.WriteByte(' ')
		writePoint(&sb, mid)
	}
	if len(points) > 1 {
		sb.WriteString(" L ")
		writePoint(&sb, points[len(points)-1])
	}
	return sb.String()
}

func writePoint(sb *strings.Builder, p point) {
	sb.WriteString(formatCoord(p.x))
	sb.WriteByte(' ')
	sb.WriteString(formatCoord(p.y))
}

// formatCoord prints at most two decimals and drops trailing zeros.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
