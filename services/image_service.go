package services

import "strings"

// Known item artwork, keyed by normalized item name. The map is small
// on purpose; anything missing falls back to its category icon.
var itemImages = map[string]string{
	"carrot":          "https://i.postimg.cc/0N6qXTvV/carrot.png",
	"strawberry":      "https://i.postimg.cc/3RrzWmpq/strawberry.png",
	"blueberry":       "https://i.postimg.cc/k5j0trHv/blueberry.png",
	"tomato":          "https://i.postimg.cc/8CqT0dfZ/tomato.png",
	"pumpkin":         "https://i.postimg.cc/Y0ZLBPLW/pumpkin.png",
	"watermelon":      "https://i.postimg.cc/bJqrJGtC/watermelon.png",
	"dragon fruit":    "https://i.postimg.cc/632SgHV1/dragonfruit.png",
	"mango":           "https://i.postimg.cc/7LhRmqRv/mango.png",
	"grape":           "https://i.postimg.cc/N0w1cxkq/grape.png",
	"candy blossom":   "https://i.postimg.cc/dVXYqWrS/candy-blossom.png",
	"watering can":    "https://i.postimg.cc/wjvJ0Y2X/watering-can.png",
	"trowel":          "https://i.postimg.cc/wvdK6nRV/trowel.png",
	"basic sprinkler": "https://i.postimg.cc/qM5xTzrW/basic-sprinkler.png",
	"godly sprinkler": "https://i.postimg.cc/QdL0znkC/godly-sprinkler.png",
	"lightning rod":   "https://i.postimg.cc/VNvrRXtK/lightning-rod.png",
	"common egg":      "https://i.postimg.cc/RZkqdXhJ/common-egg.png",
	"rare egg":        "https://i.postimg.cc/G2vq0b7m/rare-egg.png",
	"legendary egg":   "https://i.postimg.cc/6pBJwLkd/legendary-egg.png",
	"mythical egg":    "https://i.postimg.cc/WzVZ1cDY/mythical-egg.png",
	"bug egg":         "https://i.postimg.cc/tCGjyfmj/bug-egg.png",
}

var categoryIcons = map[string]string{
	"seeds":     "https://i.postimg.cc/Hn0qWvyc/seed-pack.png",
	"gears":     "https://i.postimg.cc/Gt0ZqMdj/gear.png",
	"eggs":      "https://i.postimg.cc/RZkqdXhJ/common-egg.png",
	"honey":     "https://i.postimg.cc/D0sV0qkR/honey-jar.png",
	"cosmetics": "https://i.postimg.cc/25mVvs1f/cosmetic-crate.png",
	"pets":      "https://i.postimg.cc/nrLkjFMt/pet-icon.png",
}

const defaultItemImage = "https://i.postimg.cc/Hn0qWvyc/seed-pack.png"

// ItemImageURL resolves artwork for an item, trying the exact name
// first and then its category icon.
func ItemImageURL(name, category string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if url, ok := itemImages[key]; ok {
		return url
	}
	if url, ok := categoryIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return url
	}
	return defaultItemImage
}
