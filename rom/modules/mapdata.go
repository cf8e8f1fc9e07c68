package modules

import (
	"context"
	"fmt"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/reloc"
)

// MapName is the map module's layout key.
const MapName = "map"

const (
	// MapWidth is the number of tiles per map row.
	MapWidth = 256
	// MaxTile is the largest tile number; the low 8 bits go in a chunk and
	// the top 2 in the tail.
	MaxTile = 0x3FF

	chunkCount = 8
)

// Sectors holds the per-sector property tables, already encoded.
type Sectors struct {
	Tilesets []byte
	Music    []byte
	Misc     []byte
	TownMap  []byte
}

// Map rebuilds the tile map and sector tables.
type Map struct {
	plan    *reloc.Plan
	Tiles   [][]uint16
	Sectors Sectors
}

func NewMap(plan *reloc.Plan, tiles [][]uint16, sectors Sectors) *Map {
	return &Map{plan: plan, Tiles: tiles, Sectors: sectors}
}

func (m *Map) Name() string      { return MapName }
func (m *Map) Plan() *reloc.Plan { return m.plan }

// Build splits rows across eight chunks by row number mod 8 and packs the
// high tile bits into a tail block of two chunk-sized halves. The tail halves
// are addressed by bank byte plus short pointers, so the tail is kept within
// one bank.
func (m *Map) Build(ctx context.Context, b *reloc.Builder) error {
	chunks, tail, err := m.encode()
	if err != nil {
		return err
	}
	chunkSize := len(chunks[0])
	logger.Debug("map encoded", "rows", len(m.Tiles), "chunk_size", chunkSize)

	tbl, err := b.Table("chunk_table", 4)
	if err != nil {
		return err
	}
	for i, c := range chunks {
		a, err := b.Place(c, alloc.Any())
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		tbl.Append(a)
	}
	tailAt, err := placeInOneBank(b, tail)
	if err != nil {
		return fmt.Errorf("tail: %w", err)
	}
	if _, err := tbl.Place(alloc.Any()); err != nil {
		return err
	}
	if err := b.Relocate("tail", tailAt); err != nil {
		return err
	}
	if err := b.Relocate("tail2", tailAt+addr.Mapped(chunkSize)); err != nil {
		return err
	}
	if err := b.Patch("height", uint64(len(m.Tiles)), 2); err != nil {
		return err
	}

	for _, s := range []struct {
		target string
		data   []byte
	}{
		{"sector_tilesets", m.Sectors.Tilesets},
		{"sector_music", m.Sectors.Music},
		{"sector_misc", m.Sectors.Misc},
		{"sector_town_map", m.Sectors.TownMap},
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(s.data) == 0 {
			return fmt.Errorf("%w: %s is empty", ErrBadTable, s.target)
		}
		a, err := b.Place(s.data, alloc.Any())
		if err != nil {
			return fmt.Errorf("%s: %w", s.target, err)
		}
		if err := b.Relocate(s.target, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) encode() ([chunkCount][]byte, []byte, error) {
	var chunks [chunkCount][]byte
	h := len(m.Tiles)
	if h == 0 || h%chunkCount != 0 {
		return chunks, nil, fmt.Errorf("%w: height %d is not a positive multiple of %d", ErrBadMap, h, chunkCount)
	}
	chunkSize := MapWidth * (h / chunkCount)
	for i := range chunks {
		chunks[i] = make([]byte, chunkSize)
	}
	for i, row := range m.Tiles {
		if len(row) != MapWidth {
			return chunks, nil, fmt.Errorf("%w: row %d has %d tiles", ErrBadMap, i, len(row))
		}
		off := (i >> 3) << 8
		for j, tile := range row {
			if tile > MaxTile {
				return chunks, nil, fmt.Errorf("%w: tile %#x at row %d col %d", ErrBadMap, tile, i, j)
			}
			chunks[i%chunkCount][off+j] = byte(tile)
		}
	}

	// Each tail byte packs the high bits of four vertically adjacent tiles:
	// rows 0-3 of a band in the first half, rows 4-7 in the second.
	tail := make([]byte, chunkSize*2)
	k := 0
	for band := 0; band < h>>3; band++ {
		r := m.Tiles[band<<3 : band<<3+8]
		for j := range MapWidth {
			tail[k] = hi(r[0][j]) | hi(r[1][j])<<2 | hi(r[2][j])<<4 | hi(r[3][j])<<6
			tail[k+chunkSize] = hi(r[4][j]) | hi(r[5][j])<<2 | hi(r[6][j])<<4 | hi(r[7][j])<<6
			k++
		}
	}
	return chunks, tail, nil
}

func hi(tile uint16) byte { return byte(tile>>8) & 3 }
