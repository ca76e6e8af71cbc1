//go:build rp2040 || rp2350

package main

import (
	"bytes"
	"errors"
	"kbhooks/core"
	"kbhooks/protocol"
	"machine"
)

// Each store key owns one erase block in the flash data area:
//
//	[magic hi][magic lo][len hi][len lo][crc hi][crc lo][data...]
const (
	flashMagic      = 0x4B42
	flashHeaderSize = 6
)

var errFlashCorrupt = errors.New("flash: record corrupt")

type blockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	WriteBlockSize() int64
	EraseBlockSize() int64
	EraseBlocks(start, length int64) error
}

// FlashStore implements core.Store over the on-chip flash.
type FlashStore struct {
	dev        blockDevice
	eraseBlock int64
	writeBlock int64
}

func NewFlashStore() *FlashStore {
	return &FlashStore{
		dev:        &machine.Flash,
		eraseBlock: machine.Flash.EraseBlockSize(),
		writeBlock: machine.Flash.WriteBlockSize(),
	}
}

func (f *FlashStore) offset(key core.StoreKey) int64 {
	return int64(key-1) * f.eraseBlock
}

func (f *FlashStore) Load(key core.StoreKey) ([]byte, error) {
	var hdr [flashHeaderSize]byte
	if _, err := f.dev.ReadAt(hdr[:], f.offset(key)); err != nil {
		return nil, err
	}
	if uint16(hdr[0])<<8|uint16(hdr[1]) != flashMagic {
		return nil, core.ErrNotFound
	}
	size := int64(hdr[2])<<8 | int64(hdr[3])
	if size > f.eraseBlock-flashHeaderSize {
		return nil, errFlashCorrupt
	}
	data := make([]byte, size)
	if _, err := f.dev.ReadAt(data, f.offset(key)+flashHeaderSize); err != nil {
		return nil, err
	}
	if protocol.CRC16(data) != uint16(hdr[4])<<8|uint16(hdr[5]) {
		return nil, errFlashCorrupt
	}
	return data, nil
}

// Save rewrites the key's block. Unchanged records are not rewritten.
func (f *FlashStore) Save(key core.StoreKey, data []byte) error {
	if int64(len(data)) > f.eraseBlock-flashHeaderSize {
		return core.ErrRecordSize
	}
	if cur, err := f.Load(key); err == nil && bytes.Equal(cur, data) {
		return nil
	}

	crc := protocol.CRC16(data)
	size := flashHeaderSize + int64(len(data))
	// Writes must cover whole program pages
	size = (size + f.writeBlock - 1) / f.writeBlock * f.writeBlock
	rec := make([]byte, size)
	rec[0], rec[1] = flashMagic>>8, flashMagic&0xFF
	rec[2], rec[3] = byte(len(data)>>8), byte(len(data))
	rec[4], rec[5] = byte(crc>>8), byte(crc)
	copy(rec[flashHeaderSize:], data)

	start := f.offset(key)
	if err := f.dev.EraseBlocks(start/f.eraseBlock, 1); err != nil {
		return err
	}
	_, err := f.dev.WriteAt(rec, start)
	return err
}
