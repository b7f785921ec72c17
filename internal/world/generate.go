// Package world generates the room grid, owns per-world entity state, and
// orchestrates one tick's update across movement, projectiles, combat,
// loot, and AI.
package world

import (
	"fmt"

	"dropzone/internal/config"
	"dropzone/internal/entities"
)

// GenerateRooms lays out an Nx×Ny room grid, wiring each room to its
// existing 4-neighbors, per the world generation rules.
func GenerateRooms(cfg config.WorldGen) map[entities.RoomCoord]*entities.Room {
	rooms := make(map[entities.RoomCoord]*entities.Room, cfg.WorldSizeX*cfg.WorldSizeY)
	for x := 0; x < cfg.WorldSizeX; x++ {
		for y := 0; y < cfg.WorldSizeY; y++ {
			coord := entities.RoomCoord{X: x, Y: y}
			rooms[coord] = &entities.Room{
				ID:    fmt.Sprintf("room-%d-%d", x, y),
				Coord: coord,
				Position: entities.Vector2{
					X: float64(x) * cfg.RoomSpacing,
					Y: float64(y) * cfg.RoomSpacing,
				},
				Size: entities.Vector2{X: cfg.RoomSizeX, Y: cfg.RoomSizeY},
			}
		}
	}
	for coord, room := range rooms {
		for _, delta := range []entities.RoomCoord{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			neighbor := entities.RoomCoord{X: coord.X + delta.X, Y: coord.Y + delta.Y}
			if _, ok := rooms[neighbor]; ok {
				room.Neighbors = append(room.Neighbors, neighbor)
			}
		}
	}
	return rooms
}

// GenerateExtractionPoints places one extraction point at each corner room
// of the grid.
func GenerateExtractionPoints(cfg config.WorldGen, rooms map[entities.RoomCoord]*entities.Room, requiredSeconds int) []entities.ExtractionPoint {
	corners := []entities.RoomCoord{
		{X: 0, Y: 0},
		{X: cfg.WorldSizeX - 1, Y: 0},
		{X: 0, Y: cfg.WorldSizeY - 1},
		{X: cfg.WorldSizeX - 1, Y: cfg.WorldSizeY - 1},
	}
	points := make([]entities.ExtractionPoint, 0, len(corners))
	for i, coord := range corners {
		room, ok := rooms[coord]
		if !ok {
			continue
		}
		center := entities.Vector2{
			X: room.Position.X + room.Size.X/2,
			Y: room.Position.Y + room.Size.Y/2,
		}
		points = append(points, entities.ExtractionPoint{
			ID:                    fmt.Sprintf("extraction-%d", i),
			Position:              center,
			RoomID:                room.ID,
			Active:                true,
			RequiredExtractionSec: requiredSeconds,
		})
	}
	return points
}
