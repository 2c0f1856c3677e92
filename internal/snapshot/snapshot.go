// Package snapshot reads and writes offline account snapshots shaped like a
// getMultipleAccounts response.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"sort"

	solanago "github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/mr-tron/base58"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/swapio-clmm-go/clmm"
)

const (
	EncodingBase64 = "base64"
	EncodingBase58 = "base58"
)

type entry struct {
	Pubkey string    `json:"pubkey"`
	Owner  string    `json:"owner"`
	Data   [2]string `json:"data"`
}

type document struct {
	Accounts []entry `json:"accounts"`
}

// Load reads a snapshot file.
func Load(path string) (clmm.AccountMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(raw)
}

// Parse decodes {"accounts":[{"pubkey","owner","data":[payload, encoding]}]}.
func Parse(raw []byte) (clmm.AccountMap, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("snapshot is not valid json")
	}
	list := gjson.GetBytes(raw, "accounts")
	if !list.IsArray() {
		return nil, fmt.Errorf("snapshot has no accounts array")
	}

	out := make(clmm.AccountMap)
	var parseErr error
	list.ForEach(func(idx, acc gjson.Result) bool {
		key, err := solanago.PublicKeyFromBase58(acc.Get("pubkey").String())
		if err != nil {
			parseErr = fmt.Errorf("account %d: pubkey: %w", idx.Int(), err)
			return false
		}
		owner, err := solanago.PublicKeyFromBase58(acc.Get("owner").String())
		if err != nil {
			parseErr = fmt.Errorf("account %s: owner: %w", key, err)
			return false
		}
		data, err := decodeData(acc.Get("data"))
		if err != nil {
			parseErr = fmt.Errorf("account %s: %w", key, err)
			return false
		}
		out[key] = clmm.Account{Owner: owner, Data: data}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func decodeData(data gjson.Result) ([]byte, error) {
	// A bare string is base64, as in the RPC's legacy binary encoding.
	if data.Type == gjson.String {
		return base64.StdEncoding.DecodeString(data.String())
	}
	payload, encoding := data.Get("0").String(), data.Get("1").String()
	switch encoding {
	case EncodingBase64, "":
		return base64.StdEncoding.DecodeString(payload)
	case EncodingBase58:
		return base58.Decode(payload)
	default:
		return nil, fmt.Errorf("unsupported data encoding %q", encoding)
	}
}

// Encode writes accounts as a snapshot document with base64 data, sorted by
// address.
func Encode(accounts clmm.AccountMap) ([]byte, error) {
	keys := make([]solanago.PublicKey, 0, len(accounts))
	for key := range accounts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	doc := document{Accounts: make([]entry, 0, len(keys))}
	for _, key := range keys {
		acc := accounts[key]
		doc.Accounts = append(doc.Accounts, entry{
			Pubkey: key.String(),
			Owner:  acc.Owner.String(),
			Data:   [2]string{base64.StdEncoding.EncodeToString(acc.Data), EncodingBase64},
		})
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(doc, "", "  ")
}
