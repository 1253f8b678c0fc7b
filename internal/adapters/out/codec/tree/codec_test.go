package tree_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"marketplace/internal/adapters/out/codec/record"
	"marketplace/internal/adapters/out/codec/tree"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2025, 5, 4, 18, 30, 0, 0, time.UTC)

func sampleSnapshot() snapshot.Snapshot {
	completedAt := createdAt.Add(time.Hour)
	return snapshot.Snapshot{
		Accounts: []snapshot.Account{
			{ID: 1, Name: "Alice", Email: "alice@example.com", Balance: decimal.NewFromInt(550), History: []kernel.ID{1, 3}},
			{ID: 3, Name: "Carol & Co", Phone: "+300", Balance: decimal.Zero, History: []kernel.ID{}},
		},
		Merchants: []snapshot.Merchant{
			{
				ID: 2, Name: "Pizza <Hut>", Address: "Main St 1", Open: false,
				Catalog: []snapshot.Item{
					{Name: "pepperoni", Price: decimal.RequireFromString("5.50"), Description: "spicy", Category: "pizza"},
				},
			},
		},
		Orders: []snapshot.Order{
			{
				ID: 1, AccountID: 1, MerchantID: 2,
				Lines:  []snapshot.Line{{Name: "pepperoni", Quantity: 3}},
				Total:  decimal.RequireFromString("16.50"),
				Status: order.Completed, CreatedAt: createdAt, CompletedAt: &completedAt,
			},
			{
				ID: 3, AccountID: 1, MerchantID: 2,
				Lines:  []snapshot.Line{{Name: "pepperoni", Quantity: 1}},
				Total:  decimal.RequireFromString("5.5"),
				Status: order.Delivering, CreatedAt: createdAt,
			},
		},
		Allocators: snapshot.Allocators{Account: 4, Merchant: 3, Order: 5},
	}
}

func encodeWith(t *testing.T, codec ports.Codec, s snapshot.Snapshot) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, s))
	return buf.Bytes()
}

func TestCodec_Name(t *testing.T) {
	assert.Equal(t, "tree", tree.NewCodec().Name())
}

func TestCodec_Encode(t *testing.T) {
	data := string(encodeWith(t, tree.NewCodec(), sampleSnapshot()))

	t.Run("should nest catalogs and line items", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(data, `<?xml version="1.0" encoding="UTF-8"?>`))
		assert.Contains(t, data, "<catalog>\n        <item>\n          <name>pepperoni</name>")
		assert.Contains(t, data, "<items>\n        <item>\n          <name>pepperoni</name>\n          <quantity>3</quantity>")
		assert.Contains(t, data, "<accountId>1</accountId>")
		assert.Contains(t, data, "<status>delivering</status>")
		assert.Contains(t, data, "<open>false</open>")
	})

	t.Run("should escape text", func(t *testing.T) {
		assert.Contains(t, data, "<name>Pizza &lt;Hut&gt;</name>")
		assert.Contains(t, data, "<name>Carol &amp; Co</name>")
	})

	t.Run("should be deterministic", func(t *testing.T) {
		assert.Equal(t, data, string(encodeWith(t, tree.NewCodec(), sampleSnapshot())))
	})
}

func TestCodec_Decode(t *testing.T) {
	codec := tree.NewCodec()

	t.Run("should read back what it wrote", func(t *testing.T) {
		original := encodeWith(t, codec, sampleSnapshot())

		decoded, err := codec.Decode(bytes.NewReader(original))

		require.NoError(t, err)
		assert.Equal(t, string(original), string(encodeWith(t, codec, decoded)))
		assert.Equal(t, "Pizza <Hut>", decoded.Merchants[0].Name)
		assert.Equal(t, []kernel.ID{1, 3}, decoded.Accounts[0].History)
		assert.NotNil(t, decoded.Accounts[1].History)
		assert.Empty(t, decoded.Accounts[1].History)
		assert.Nil(t, decoded.Orders[1].CompletedAt)
		assert.Equal(t, snapshot.Allocators{Account: 4, Merchant: 3, Order: 5}, decoded.Allocators)
	})

	t.Run("should fill defaults for missing optional elements", func(t *testing.T) {
		input := `<marketplace>
			<accounts><account><id>4</id><name>Dana</name><balance>10</balance></account></accounts>
			<merchants><merchant><id>2</id><name>Deli</name>
				<catalog><item><name>soup</name><price>3.5</price></item></catalog>
			</merchant></merchants>
			<orders><order><id>9</id><accountId>4</accountId><merchantId>2</merchantId>
				<items><item><name>soup</name><quantity>2</quantity></item></items>
				<total>7</total>
			</order></orders>
		</marketplace>`

		decoded, err := codec.Decode(strings.NewReader(input))

		require.NoError(t, err)
		assert.Equal(t, snapshot.Allocators{}, decoded.Allocators)
		assert.Nil(t, decoded.Accounts[0].History)
		assert.True(t, decoded.Merchants[0].Open)
		assert.Empty(t, decoded.Merchants[0].Catalog[0].Description)
		assert.Equal(t, order.Created, decoded.Orders[0].Status)
		assert.Equal(t, []snapshot.Line{{Name: "soup", Quantity: 2}}, decoded.Orders[0].Lines)
		assert.Equal(t, "7", decoded.Orders[0].Total.String())
	})

	t.Run("should report malformed input as read failure", func(t *testing.T) {
		for _, input := range []string{
			``,
			`<marketplace><accounts>`,
			`<marketplace><accounts><account><id>one</id></account></accounts></marketplace>`,
			`<marketplace><orders><order><status>shipped</status></order></orders></marketplace>`,
			`<marketplace><merchants><merchant><open>maybe</open></merchant></merchants></marketplace>`,
			`<inventory></inventory>`,
		} {
			_, err := codec.Decode(strings.NewReader(input))

			require.ErrorIs(t, err, errs.ErrPersistenceRead, input)
		}
	})
}

func TestCodecs_AreCrossCompatible(t *testing.T) {
	recordCodec, treeCodec := record.NewCodec(), tree.NewCodec()
	original := sampleSnapshot()

	t.Run("record to tree", func(t *testing.T) {
		viaRecord, err := recordCodec.Decode(bytes.NewReader(encodeWith(t, recordCodec, original)))
		require.NoError(t, err)

		assert.Equal(t,
			string(encodeWith(t, treeCodec, original)),
			string(encodeWith(t, treeCodec, viaRecord)),
		)
	})

	t.Run("tree to record", func(t *testing.T) {
		viaTree, err := treeCodec.Decode(bytes.NewReader(encodeWith(t, treeCodec, original)))
		require.NoError(t, err)

		assert.Equal(t,
			string(encodeWith(t, recordCodec, original)),
			string(encodeWith(t, recordCodec, viaTree)),
		)
	})
}
