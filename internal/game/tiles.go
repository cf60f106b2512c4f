package game

import "fmt"

// Tile is the content of one visible map cell.
type Tile int32

const (
	TileUnknown Tile = iota
	TileEmpty
	TilePlayer
	TileWall
	TileExit
	TileDoorRed
	TileKeyRed
	TileDoorGreen
	TileKeyGreen
	TileDoorBlue
	TileKeyBlue
	TileBoulder
	TilePressurePlateRed
	TilePressurePlateGreen
	TilePressurePlateBlue
	TileEnemy
	TileSword
	TileHealth
	TileTreasure
	TileBoss
	TileDoorBlack
)

var tileNames = map[Tile]string{
	TileUnknown:            "TILE_UNKNOWN",
	TileEmpty:              "TILE_EMPTY",
	TilePlayer:             "TILE_PLAYER",
	TileWall:               "TILE_WALL",
	TileExit:               "TILE_EXIT",
	TileDoorRed:            "TILE_DOOR_RED",
	TileKeyRed:             "TILE_KEY_RED",
	TileDoorGreen:          "TILE_DOOR_GREEN",
	TileKeyGreen:           "TILE_KEY_GREEN",
	TileDoorBlue:           "TILE_DOOR_BLUE",
	TileKeyBlue:            "TILE_KEY_BLUE",
	TileBoulder:            "TILE_BOULDER",
	TilePressurePlateRed:   "TILE_PRESSURE_PLATE_RED",
	TilePressurePlateGreen: "TILE_PRESSURE_PLATE_GREEN",
	TilePressurePlateBlue:  "TILE_PRESSURE_PLATE_BLUE",
	TileEnemy:              "TILE_ENEMY",
	TileSword:              "TILE_SWORD",
	TileHealth:             "TILE_HEALTH",
	TileTreasure:           "TILE_TREASURE",
	TileBoss:               "TILE_BOSS",
	TileDoorBlack:          "TILE_DOOR_BLACK",
}

// Tiles returns every known tile in protocol order.
func Tiles() []Tile {
	tiles := make([]Tile, 0, len(tileNames))
	for tile := TileUnknown; tile <= TileDoorBlack; tile++ {
		tiles = append(tiles, tile)
	}
	return tiles
}

func (t Tile) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tile(%d)", int32(t))
}

// Inventory is the single item slot a player carries.
type Inventory int32

const (
	InventoryNone Inventory = iota
	InventoryKeyRed
	InventoryKeyGreen
	InventoryKeyBlue
	InventoryBoulder
	InventoryTreasure
)

var inventoryNames = map[Inventory]string{
	InventoryNone:     "INVENTORY_NONE",
	InventoryKeyRed:   "INVENTORY_KEY_RED",
	InventoryKeyGreen: "INVENTORY_KEY_GREEN",
	InventoryKeyBlue:  "INVENTORY_KEY_BLUE",
	InventoryBoulder:  "INVENTORY_BOULDER",
	InventoryTreasure: "INVENTORY_TREASURE",
}

// Inventories returns every known inventory value in protocol order.
func Inventories() []Inventory {
	return []Inventory{
		InventoryNone,
		InventoryKeyRed,
		InventoryKeyGreen,
		InventoryKeyBlue,
		InventoryBoulder,
		InventoryTreasure,
	}
}

func (i Inventory) String() string {
	if name, ok := inventoryNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Inventory(%d)", int32(i))
}
