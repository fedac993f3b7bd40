package main

import (
	"fmt"
	"os"

	"vmap"
	"vmap/internal/filehandle"
)

type Player struct {
	ID   uint64
	HP   uint32
	MP   uint32
	Name [32]byte
}

func newPlayer(id uint64, hp, mp uint32, name string) *Player {
	p := Player{ID: id, HP: hp, MP: mp}
	copy(p.Name[:], []byte(name))
	return &p
}

func main() {
	f, err := os.OpenFile("./players.data", os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	buf, err := vmap.NewBuilder(filehandle.New(f)).
		Mode(vmap.ReadWrite).
		MinRegionSize(1 << 16).
		MaxRegionSize(1 << 20).
		MaxRegions(8).
		Build()
	if err != nil {
		panic(err)
	}
	defer buf.Close()

	const recordSize = 48 // sizeof(Player)
	for i := 0; i < 100; i++ {
		p := newPlayer(uint64(i), uint32(i), uint32(i), fmt.Sprintf("player%d", i))
		if err := vmap.PutFixed(buf, int64(i*recordSize), p); err != nil {
			panic(err)
		}
	}

	for i := 0; i < 100; i++ {
		got, err := vmap.GetFixed[Player](buf, int64(i*recordSize))
		if err != nil {
			panic(err)
		}
		fmt.Println(got.ID, got.HP, string(got.Name[:]))
	}
}
