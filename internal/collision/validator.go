// Package collision composes the geometry kernel over layout entities
// to answer placement queries. A true result means the placement is
// blocked. The checks are fail-closed: an unknown entity, a missing
// target room, or an underivable shape all report a collision rather
// than allowing the move.
package collision

import (
	"github.com/planhub-io/planhub-backend/internal/geometry"
	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

// RoomCollides reports whether the room, placed at the candidate
// absolute position, would overlap any other room.
func RoomCollides(rooms []domain.Room, roomID string, candidate geometry.Point) bool {
	var subject *domain.Room
	for i := range rooms {
		if rooms[i].ID == roomID {
			subject = &rooms[i]
			break
		}
	}
	if subject == nil {
		return true
	}
	verts, err := geometry.ShapeVertices(subject.Shape)
	if err != nil {
		return true
	}
	candidatePoly := geometry.Translate(verts, candidate)

	for i := range rooms {
		if rooms[i].ID == roomID {
			continue
		}
		otherVerts, err := geometry.ShapeVertices(rooms[i].Shape)
		if err != nil {
			continue
		}
		if geometry.PolygonsIntersect(candidatePoly, geometry.Translate(otherVerts, rooms[i].Position)) {
			return true
		}
	}
	return false
}

// FurnitureCollides reports whether the furniture item, placed at the
// candidate room-relative position inside candidateRoomID, would poke
// out of the room or overlap any other furniture item in any room.
func FurnitureCollides(rooms []domain.Room, furniture []domain.Furniture, furnitureID string, candidate geometry.Point, candidateRoomID string) bool {
	var subject *domain.Furniture
	for i := range furniture {
		if furniture[i].ID == furnitureID {
			subject = &furniture[i]
			break
		}
	}
	if subject == nil {
		return true
	}

	var room *domain.Room
	for i := range rooms {
		if rooms[i].ID == candidateRoomID {
			room = &rooms[i]
			break
		}
	}
	if room == nil {
		// The addressed room vanished mid-drag.
		return true
	}
	roomVerts, err := geometry.ShapeVertices(room.Shape)
	if err != nil {
		return true
	}
	roomPoly := geometry.Translate(roomVerts, room.Position)

	moved := *subject
	moved.Position = candidate
	moved.RoomID = candidateRoomID

	if fp, ok := footprintOf(rooms, moved); ok {
		if !fp.insidePolygon(roomPoly) {
			return true
		}
		for i := range furniture {
			if furniture[i].ID == furnitureID {
				continue
			}
			other, ok := footprintOf(rooms, furniture[i])
			if !ok {
				continue
			}
			if fp.overlaps(other) {
				return true
			}
		}
		return false
	}
	return true
}

// footprint is a furniture item's absolute outline: either a circle or
// a rotated polygon.
type footprint struct {
	isCircle bool
	center   geometry.Point
	radius   int
	polygon  []geometry.Point
}

// footprintOf computes the absolute footprint of a furniture item by
// resolving its owning room's origin. Items whose room is gone have no
// footprint.
func footprintOf(rooms []domain.Room, f domain.Furniture) (footprint, bool) {
	var room *domain.Room
	for i := range rooms {
		if rooms[i].ID == f.RoomID {
			room = &rooms[i]
			break
		}
	}
	if room == nil {
		return footprint{}, false
	}
	origin := room.Position.Add(f.Position)

	if f.Shape.Kind == geometry.ShapeCircle {
		r := f.Shape.Radius
		if r <= 0 {
			return footprint{}, false
		}
		return footprint{
			isCircle: true,
			center:   origin.Add(geometry.Point{X: r, Y: r}),
			radius:   r,
		}, true
	}

	verts, err := geometry.ShapeVertices(f.Shape)
	if err != nil {
		return footprint{}, false
	}
	rotated := geometry.RotateVertices(verts, f.Rotation)
	return footprint{polygon: geometry.Translate(rotated, origin)}, true
}

// insidePolygon reports whether the footprint lies entirely inside the
// room polygon. Circles are approximated by testing every vertex of the
// un-rotated sample polygon.
func (fp footprint) insidePolygon(roomPoly []geometry.Point) bool {
	if fp.isCircle {
		samples := geometry.Translate(
			mustCircleVertices(fp.radius),
			fp.center.Sub(geometry.Point{X: fp.radius, Y: fp.radius}),
		)
		for _, v := range samples {
			if !geometry.PointInPolygon(v, roomPoly) {
				return false
			}
		}
		return true
	}
	for _, v := range fp.polygon {
		if !geometry.PointInPolygon(v, roomPoly) {
			return false
		}
	}
	return true
}

// overlaps reports whether two footprints intersect.
func (fp footprint) overlaps(other footprint) bool {
	switch {
	case fp.isCircle && other.isCircle:
		return geometry.CirclesIntersect(fp.center, fp.radius, other.center, other.radius)
	case fp.isCircle:
		return geometry.CirclePolygonIntersect(fp.center, fp.radius, other.polygon)
	case other.isCircle:
		return geometry.CirclePolygonIntersect(other.center, other.radius, fp.polygon)
	default:
		return geometry.PolygonsIntersect(fp.polygon, other.polygon)
	}
}

func mustCircleVertices(radius int) []geometry.Point {
	verts, err := geometry.ShapeVertices(geometry.ShapeTemplate{Kind: geometry.ShapeCircle, Radius: radius})
	if err != nil {
		return nil
	}
	return verts
}
