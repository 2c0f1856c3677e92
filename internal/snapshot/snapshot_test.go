package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/swapio-clmm-go/clmm"
	"github.com/krazyTry/swapio-clmm-go/clmm/clmmtest"
)

func TestEncodeParse(t *testing.T) {
	market := clmmtest.NewMarket(10, 0, 2500)
	market.AddPosition(-600, 600, 1_000_000_000_000)
	accounts := market.Accounts()
	pool := market.PoolAccount()
	accounts[pool.Key] = pool.Account

	raw, err := Encode(accounts)
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, accounts, parsed)
}

func TestParseEncodings(t *testing.T) {
	key, owner := clmmtest.Key("a"), clmmtest.Key("b")
	data := []byte{1, 2, 3, 250}

	for _, raw := range []string{
		`{"accounts":[{"pubkey":"` + key.String() + `","owner":"` + owner.String() + `","data":["AQID+g==","base64"]}]}`,
		`{"accounts":[{"pubkey":"` + key.String() + `","owner":"` + owner.String() + `","data":["` + base58.Encode(data) + `","base58"]}]}`,
		`{"accounts":[{"pubkey":"` + key.String() + `","owner":"` + owner.String() + `","data":"AQID+g=="}]}`,
	} {
		accounts, err := Parse([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, clmm.Account{Owner: owner, Data: data}, accounts[key])
	}
}

func TestParseErrors(t *testing.T) {
	key := clmmtest.Key("a").String()
	tests := []struct {
		name, raw, want string
	}{
		{"invalid json", `{"accounts":[`, "not valid json"},
		{"no accounts", `{"value":[]}`, "no accounts array"},
		{"bad pubkey", `{"accounts":[{"pubkey":"xx","owner":"` + key + `","data":["","base64"]}]}`, "pubkey"},
		{"bad owner", `{"accounts":[{"pubkey":"` + key + `","owner":"","data":["","base64"]}]}`, "owner"},
		{"bad encoding", `{"accounts":[{"pubkey":"` + key + `","owner":"` + key + `","data":["","zstd"]}]}`, "unsupported data encoding"},
		{"bad base64", `{"accounts":[{"pubkey":"` + key + `","owner":"` + key + `","data":["***","base64"]}]}`, "illegal base64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	raw, err := Encode(clmm.AccountMap{clmmtest.Key("a"): {Owner: clmmtest.Key("b"), Data: []byte{9}}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	accounts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, accounts[clmmtest.Key("a")].Data)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read snapshot")
}
