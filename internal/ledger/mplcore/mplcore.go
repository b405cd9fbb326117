// Package mplcore encodes the parts of the Metaplex Core program that the
// license mint needs: the CreateV1 instruction and the CollectionV1 account.
package mplcore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d")

const (
	createV1Discriminator uint8 = 0
	dataStateAccount      uint8 = 0

	keyCollectionV1 uint8 = 5
)

var (
	ErrNotCollection = errors.New("account is not a CollectionV1")
	ErrTruncated     = errors.New("account data truncated")
)

// CreateV1Accounts lists the CreateV1 accounts. Zero-valued optional
// accounts are passed as the program id, which the program reads as "none".
type CreateV1Accounts struct {
	Asset           solana.PublicKey
	Collection      solana.PublicKey
	Authority       solana.PublicKey
	Payer           solana.PublicKey
	Owner           solana.PublicKey
	UpdateAuthority solana.PublicKey
	LogWrapper      solana.PublicKey
}

type CreateV1Args struct {
	Name string
	URI  string
}

func optional(pk solana.PublicKey, write, signer bool) *solana.AccountMeta {
	if pk.IsZero() {
		return solana.NewAccountMeta(ProgramID, false, false)
	}
	return solana.NewAccountMeta(pk, write, signer)
}

// NewCreateV1Instruction builds a CreateV1 instruction with no plugins.
func NewCreateV1Instruction(accts CreateV1Accounts, args CreateV1Args) (*solana.GenericInstruction, error) {
	if accts.Asset.IsZero() || accts.Payer.IsZero() {
		return nil, errors.New("create v1: asset and payer are required")
	}

	data, err := encodeCreateV1(args)
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accts.Asset, true, true),
		optional(accts.Collection, true, false),
		optional(accts.Authority, false, true),
		solana.NewAccountMeta(accts.Payer, true, true),
		optional(accts.Owner, false, false),
		optional(accts.UpdateAuthority, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		optional(accts.LogWrapper, false, false),
	}

	return solana.NewInstruction(ProgramID, metas, data), nil
}

func encodeCreateV1(args CreateV1Args) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteUint8(createV1Discriminator); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(dataStateAccount); err != nil {
		return nil, err
	}
	if err := writeString(enc, args.Name); err != nil {
		return nil, fmt.Errorf("create v1 name: %w", err)
	}
	if err := writeString(enc, args.URI); err != nil {
		return nil, fmt.Errorf("create v1 uri: %w", err)
	}
	// plugins: Option::None
	if err := enc.WriteUint8(0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeString(enc *bin.Encoder, s string) error {
	if err := enc.WriteUint32(uint32(len(s)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes([]byte(s), false)
}

// Collection is the decoded CollectionV1 account header. Plugin data that
// follows it is ignored.
type Collection struct {
	Address         solana.PublicKey
	UpdateAuthority solana.PublicKey
	Name            string
	URI             string
	NumMinted       uint32
	CurrentSize     uint32
}

func DecodeCollection(data []byte) (*Collection, error) {
	dec := bin.NewBorshDecoder(data)

	key, err := dec.ReadUint8()
	if err != nil {
		return nil, ErrTruncated
	}
	if key != keyCollectionV1 {
		return nil, ErrNotCollection
	}

	c := &Collection{}
	authority, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, ErrTruncated
	}
	c.UpdateAuthority = solana.PublicKeyFromBytes(authority)

	if c.Name, err = readString(dec); err != nil {
		return nil, err
	}
	if c.URI, err = readString(dec); err != nil {
		return nil, err
	}
	if c.NumMinted, err = dec.ReadUint32(binary.LittleEndian); err != nil {
		return nil, ErrTruncated
	}
	if c.CurrentSize, err = dec.ReadUint32(binary.LittleEndian); err != nil {
		return nil, ErrTruncated
	}
	return c, nil
}

func readString(dec *bin.Decoder) (string, error) {
	n, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return "", ErrTruncated
	}
	if int(n) > dec.Remaining() {
		return "", ErrTruncated
	}
	b, err := dec.ReadNBytes(int(n))
	if err != nil {
		return "", ErrTruncated
	}
	return string(b), nil
}
