package cix

import (
	"math"

	"github.com/chazu/cixview/pkg/geom"
)

// ROUT sub-block markers. Each is introduced by a NAME line and owns the
// PARAM lines that follow, terminated implicitly by the next marker or the
// enclosing END MACRO; there is no BEGIN/END pair of its own.
const (
	subStartPoint = "START_POINT"
	subLineEP     = "LINE_EP"
	subArcEPTP    = "ARC_EPTP"
	subArcEPRA    = "ARC_EPRA"
	subArcEPCE    = "ARC_EPCE"
	subEndPath    = "ENDPATH"
)

// subBlock is one nested pseudo-sub-macro of a ROUT block.
type subBlock struct {
	name   string
	params map[string]string
}

// routPass scans for ROUT macros and assembles routing paths. It runs as
// its own pass because ROUT blocks contain nested sub-blocks that the
// generic macro pass cannot represent.
func routPass(toks []token, ctx parseContext) []RoutingPath {
	var paths []RoutingPath
	for i := 0; i < len(toks); i++ {
		if toks[i].kind != tokBegin || toks[i].block != "MACRO" {
			continue
		}
		end := i + 1
		for end < len(toks) && !(toks[end].kind == tokEnd && toks[end].block == "MACRO") {
			end++
		}
		header, subs := splitRoutBlock(toks[i+1 : end])
		if header != nil {
			paths = append(paths, buildPaths(header, subs, ctx)...)
		}
		i = end
	}
	return paths
}

// splitRoutBlock separates a macro body into the ROUT header parameters and
// the ordered sub-blocks. A nil header means the macro is not a ROUT.
func splitRoutBlock(body []token) (header map[string]string, subs []subBlock) {
	var cur map[string]string
	for _, t := range body {
		switch t.kind {
		case tokName:
			switch {
			case header == nil && t.name == macroRout:
				header = map[string]string{}
				cur = header
			case header == nil:
				return nil, nil // not a ROUT macro
			default:
				subs = append(subs, subBlock{name: t.name, params: map[string]string{}})
				cur = subs[len(subs)-1].params
			}
		case tokParam:
			if cur != nil {
				cur[t.key] = t.value
			}
		}
	}
	return header, subs
}

// buildPaths assembles routing paths from a ROUT header and its sub-blocks.
// An ENDPATH marker closes the current path; a further START_POINT opens a
// new one inheriting the macro's tool parameters.
func buildPaths(header map[string]string, subs []subBlock, ctx parseContext) []RoutingPath {
	diameter := firstParam(header, diameterParamKeys)
	headerDepth := maxDepthParam(header)

	var paths []RoutingPath
	var points []RoutePoint
	segDepth := 0.0

	flush := func() {
		if len(points) == 0 {
			return
		}
		paths = append(paths, RoutingPath{
			Source:   macroRout,
			Points:   points,
			Diameter: diameter,
			Params:   header,
			MaxDepth: math.Max(headerDepth, segDepth),
		})
		points = nil
		segDepth = 0
	}

	for _, sb := range subs {
		switch sb.name {
		case subStartPoint:
			flush()
			p, depth := routPoint(sb, SegmentStart, ctx)
			segDepth = math.Max(segDepth, depth)
			points = append(points, p)
		case subLineEP:
			p, depth := routPoint(sb, SegmentLine, ctx)
			segDepth = math.Max(segDepth, depth)
			points = append(points, p)
		case subArcEPTP, subArcEPRA, subArcEPCE:
			p, depth := routPoint(sb, SegmentArc, ctx)
			segDepth = math.Max(segDepth, depth)
			points = append(points, p)
		case subEndPath:
			flush()
		}
		// Unknown sub-blocks (tool changes, feeds) are skipped.
	}
	flush()
	return paths
}

// routPoint builds one path point from a sub-block. Endpoint coordinates
// use the XE/YE/ZE keys with X/Y/Z fallbacks; arc centers use XC/YC.
func routPoint(sb subBlock, kind SegmentKind, ctx parseContext) (RoutePoint, float64) {
	x := ParseNumber(coalesce(sb.params, "XE", "X"))
	y := ctx.flipY(ParseNumber(coalesce(sb.params, "YE", "Y")))

	p := RoutePoint{
		Position: geom.Point{X: x, Y: y},
		Kind:     kind,
		Params:   sb.params,
	}

	depth := 0.0
	if raw, ok := lookup(sb.params, "ZE", "Z"); ok {
		z := ParseNumber(raw)
		p.Z = z
		p.HasZ = true
		if z < 0 {
			depth = -z
		}
	}

	if kind == SegmentArc {
		if xc, ok := lookup(sb.params, "XC"); ok {
			if yc, ok2 := lookup(sb.params, "YC"); ok2 {
				p.Center = &geom.Point{
					X: ParseNumber(xc),
					Y: ctx.flipY(ParseNumber(yc)),
				}
			}
		}
	}
	return p, depth
}

// maxDepthParam returns the largest depth magnitude among the synonymous
// depth parameter keys present in params.
func maxDepthParam(params map[string]string) float64 {
	depth := 0.0
	for _, key := range depthParamKeys {
		if raw, ok := params[key]; ok {
			depth = math.Max(depth, math.Abs(ParseNumber(raw)))
		}
	}
	return depth
}

// firstParam returns the parsed value of the first present key.
func firstParam(params map[string]string, keys []string) float64 {
	for _, key := range keys {
		if raw, ok := params[key]; ok {
			return ParseNumber(raw)
		}
	}
	return 0
}

func coalesce(params map[string]string, keys ...string) string {
	v, _ := lookup(params, keys...)
	return v
}

func lookup(params map[string]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := params[key]; ok {
			return v, true
		}
	}
	return "", false
}

func pointAt(x, y float64) geom.Point {
	return geom.Point{X: x, Y: y}
}
