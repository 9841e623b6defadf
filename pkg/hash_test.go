package dupehash

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashReader_KnownVectors(t *testing.T) {
	testCases := []struct {
		algorithm string
		input     string
		expected  string
	}{
		{"sha256", "hi", "8f434346648f6b96df89dda901c5176b10a6d83961dd3c1ac88b59b2dc327aa4"},
		{"sha256", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"md5", "hi", "49f68a5c8493ec2c0bf489821c21fc3b"},
		{"md5", "", "d41d8cd98f00b204e9800998ecf8427e"},
		{"sha1", "", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"sha3-256", "", "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{"blake3", "", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{"murmur3-128", "", "00000000000000000000000000000000"},
	}

	for _, tc := range testCases {
		algo, err := GetHashAlgorithm(tc.algorithm)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%q) failed: %v", tc.algorithm, err)
		}
		sum, err := HashReader(strings.NewReader(tc.input), algo)
		if err != nil {
			t.Fatalf("HashReader(%s) failed: %v", tc.algorithm, err)
		}
		if got := hex.EncodeToString(sum); got != tc.expected {
			t.Errorf("Expected %s(%q) = %s, got %s", tc.algorithm, tc.input, tc.expected, got)
		}
	}
}

func TestGetHashAlgorithm(t *testing.T) {
	testCases := []struct {
		name   string
		typeID uint16
		size   int
		valid  bool
	}{
		{"sha1", HashTypeSHA1, HashSizeSHA1, true},
		{"sha256", HashTypeSHA256, HashSizeSHA256, true},
		{"SHA256", HashTypeSHA256, HashSizeSHA256, true},
		{"sha-256", HashTypeSHA256, HashSizeSHA256, true},
		{"sha512", HashTypeSHA512, HashSizeSHA512, true},
		{"sha3", HashTypeSHA3_256, HashSizeSHA3_256, true},
		{"md5", HashTypeMD5, HashSizeMD5, true},
		{"fnv", HashTypeFNV1a128, HashSizeFNV1a128, true},
		{"crc64", HashTypeCRC64, HashSizeCRC64, true},
		{"blake3", HashTypeBLAKE3, HashSizeBLAKE3, true},
		{"murmur3", HashTypeMurmur3, HashSizeMurmur3, true},
		{"blake9", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, tc := range testCases {
		algo, err := GetHashAlgorithm(tc.name)
		if !tc.valid {
			if err == nil {
				t.Errorf("GetHashAlgorithm('%s') should fail but succeeded", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("GetHashAlgorithm('%s') should succeed but got error: %v", tc.name, err)
			continue
		}
		if algo.TypeID != tc.typeID {
			t.Errorf("GetHashAlgorithm('%s') type ID = %d, expected %d", tc.name, algo.TypeID, tc.typeID)
		}
		if algo.Size != tc.size {
			t.Errorf("GetHashAlgorithm('%s') size = %d, expected %d", tc.name, algo.Size, tc.size)
		}
		if got := len(algo.NewFunc().Sum(nil)); got != tc.size {
			t.Errorf("GetHashAlgorithm('%s') digest length = %d, expected %d", tc.name, got, tc.size)
		}
	}
}

func TestGetHashAlgorithmByType(t *testing.T) {
	for _, name := range HashAlgorithmNames() {
		algo, err := GetHashAlgorithm(name)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) failed: %v", name, err)
		}
		byType, err := GetHashAlgorithmByType(algo.TypeID)
		if err != nil {
			t.Errorf("GetHashAlgorithmByType(%d) failed: %v", algo.TypeID, err)
			continue
		}
		if byType.Name != name {
			t.Errorf("Expected type %d to be %s, got %s", algo.TypeID, name, byType.Name)
		}
	}
	if _, err := GetHashAlgorithmByType(999); err == nil {
		t.Error("Expected error for unregistered type")
	}
}

func TestHashFileInterruptible_MatchesHashReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	content := bytes.Repeat([]byte("dupehash"), 10000)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	algo, _ := GetHashAlgorithm("sha256")
	expected, err := HashReader(bytes.NewReader(content), algo)
	if err != nil {
		t.Fatalf("HashReader failed: %v", err)
	}

	// Small buffers force many reads
	for _, bufferSize := range []int{1, 7, 4096, 1 << 20} {
		got, n, err := HashFileInterruptible(context.Background(), path, algo, bufferSize)
		if err != nil {
			t.Fatalf("HashFileInterruptible(buffer=%d) failed: %v", bufferSize, err)
		}
		if !bytes.Equal(got, expected) {
			t.Errorf("Expected buffer=%d digest %x, got %x", bufferSize, expected, got)
		}
		if n != uint64(len(content)) {
			t.Errorf("Expected buffer=%d to read %d bytes, got %d", bufferSize, len(content), n)
		}
	}
}

func TestHashFileInterruptible_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	algo, _ := GetHashAlgorithm("md5")
	_, _, err := HashFileInterruptible(ctx, path, algo, 4)
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("Expected ErrInterrupted, got %v", err)
	}
}

func TestHashFileInterruptible_Errors(t *testing.T) {
	algo, _ := GetHashAlgorithm("sha256")

	_, _, err := HashFileInterruptible(context.Background(), filepath.Join(t.TempDir(), "missing"), algo, 1024)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}

	_, _, err = HashFileInterruptible(context.Background(), "whatever", algo, 0)
	if err == nil || !strings.Contains(err.Error(), "buffer") {
		t.Errorf("Expected buffer size error, got %v", err)
	}
}
