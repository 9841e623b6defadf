package dupehash

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha512"
	"fmt"
	"hash"
	"hash/crc64"
	"hash/fnv"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/spaolacci/murmur3"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name          string
	TypeID        uint16
	Size          int
	Cryptographic bool
	NewFunc       func() hash.Hash
}

var crc64Table = crc64.MakeTable(crc64.ECMA)

var hashAlgorithms = []HashAlgorithm{
	{Name: "sha256", TypeID: HashTypeSHA256, Size: HashSizeSHA256, Cryptographic: true, NewFunc: sha256.New},
	{Name: "sha1", TypeID: HashTypeSHA1, Size: HashSizeSHA1, Cryptographic: true, NewFunc: sha1.New},
	{Name: "sha512", TypeID: HashTypeSHA512, Size: HashSizeSHA512, Cryptographic: true, NewFunc: sha512.New},
	{Name: "sha3-256", TypeID: HashTypeSHA3_256, Size: HashSizeSHA3_256, Cryptographic: true, NewFunc: sha3.New256},
	{Name: "blake3", TypeID: HashTypeBLAKE3, Size: HashSizeBLAKE3, Cryptographic: true, NewFunc: func() hash.Hash { return blake3.New(HashSizeBLAKE3, nil) }},
	{Name: "md5", TypeID: HashTypeMD5, Size: HashSizeMD5, NewFunc: md5.New},
	{Name: "fnv1a-128", TypeID: HashTypeFNV1a128, Size: HashSizeFNV1a128, NewFunc: fnv.New128a},
	{Name: "murmur3-128", TypeID: HashTypeMurmur3, Size: HashSizeMurmur3, NewFunc: func() hash.Hash { return murmur3.New128() }},
	{Name: "crc64", TypeID: HashTypeCRC64, Size: HashSizeCRC64, NewFunc: func() hash.Hash { return crc64.New(crc64Table) }},
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "sha-256":
		name = "sha256"
	case "sha3", "sha3_256":
		name = "sha3-256"
	case "fnv", "fnv128a":
		name = "fnv1a-128"
	case "murmur3", "murmur":
		name = "murmur3-128"
	case "blake3-256":
		name = "blake3"
	}
	for i := range hashAlgorithms {
		if hashAlgorithms[i].Name == name {
			algo := hashAlgorithms[i]
			return &algo, nil
		}
	}
	return nil, fmt.Errorf("unsupported hash algorithm: %s (supported: %s)", name, strings.Join(HashAlgorithmNames(), ", "))
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	for i := range hashAlgorithms {
		if hashAlgorithms[i].TypeID == typeID {
			algo := hashAlgorithms[i]
			return &algo, nil
		}
	}
	return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
}

// HashAlgorithmNames lists registered algorithm names in sorted order
func HashAlgorithmNames() []string {
	names := make([]string, 0, len(hashAlgorithms))
	for i := range hashAlgorithms {
		names = append(names, hashAlgorithms[i].Name)
	}
	sort.Strings(names)
	return names
}

// HashReader streams r through the algorithm and returns the digest
func HashReader(r io.Reader, algorithm *HashAlgorithm) ([]byte, error) {
	hasher := algorithm.NewFunc()
	if _, err := io.Copy(hasher, r); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}

// HashFileInterruptible hashes a file through a fixed-size buffer, checking
// ctx between reads. It returns the digest and the number of bytes hashed.
// Memory use is bounded by bufferSize regardless of file size.
func HashFileInterruptible(ctx context.Context, filePath string, algorithm *HashAlgorithm, bufferSize int) ([]byte, uint64, error) {
	if bufferSize <= 0 {
		return nil, 0, fmt.Errorf("invalid hash buffer size %d", bufferSize)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	adviseSequential(file)

	hasher := algorithm.NewFunc()
	buffer := make([]byte, bufferSize)
	var total uint64

	for {
		select {
		case <-ctx.Done():
			return nil, total, fmt.Errorf("hashing %s: %w", filePath, ErrInterrupted)
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			total += uint64(n)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, total, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum(nil), total, nil
}
