package wire

import (
	"encoding/hex"
	"errors"
)

// AssetId is the 128-bit identifier used both as a texture request handle
// and as the asset cache's primary key (§3). Equality and hashing are
// defined over the raw bytes, not any textual representation.
type AssetId [16]byte

// ErrShortUUID is returned by ParseAssetId when the input isn't 16 raw
// bytes.
var ErrShortUUID = errors.New("wire: asset id must be 16 bytes")

// ZeroAssetId is the nil asset id, used on the wire to mean "no texture".
var ZeroAssetId AssetId

// IsZero reports whether id is the nil asset id.
func (id AssetId) IsZero() bool { return id == ZeroAssetId }

// String renders id in canonical 8-4-4-4-12 hyphenated hex form.
func (id AssetId) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], id[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], id[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], id[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], id[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], id[10:16])
	return string(buf[:])
}

// ParseAssetId parses 16 raw bytes into an AssetId. It does not accept the
// hyphenated textual form; that conversion lives above the wire layer.
func ParseAssetId(b []byte) (AssetId, error) {
	var id AssetId
	if len(b) != 16 {
		return id, ErrShortUUID
	}
	copy(id[:], b)
	return id, nil
}

// ReadAssetId reads the next 16 bytes as an AssetId.
func (r *Reader) ReadAssetId(context string) (AssetId, error) {
	b, err := r.Bytes(context, 16)
	if err != nil {
		return AssetId{}, err
	}
	var id AssetId
	copy(id[:], b)
	return id, nil
}

func (w *Writer) PutAssetId(id AssetId) {
	w.buf = append(w.buf, id[:]...)
}
