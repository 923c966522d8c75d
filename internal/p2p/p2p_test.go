package p2p

import (
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func TestFilterAddressesDropsPrivateAndLoopback(t *testing.T) {
	in := []string{
		"10.0.0.5:51235",
		"192.168.1.1:51235",
		"127.0.0.1:51235",
		"169.254.1.1:51235",
		"0.0.0.0:51235",
		"8.8.8.8:51235",
		"node.example.com:51235",
	}
	out := FilterAddresses(in)
	require.Equal(t, []string{"8.8.8.8:51235", "node.example.com:51235"}, out)
}

func TestTxWireRoundTrip(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)

	txn := &tx.Transaction{
		Kind:     tx.KindPayment,
		Account:  crypto.DeriveAddress(pub),
		Amount:   amount.Native(10 * amount.DropsPerNXF),
		Fee:      1000,
		Sequence: 1,
	}
	txn.StakeID[0] = 0xAB

	wire := ToWire(txn)
	require.Equal(t, hex.EncodeToString(txn.StakeID[:]), wire.StakeID)

	back := FromWire(wire)
	require.Equal(t, txn.Account, back.Account)
	require.Equal(t, txn.StakeID, back.StakeID)
}

func TestEnvelopeEncodeDecode(t *testing.T) {
	env, err := Encode(TypePing, PingMsg{})
	require.NoError(t, err)
	require.Equal(t, TypePing, env.Kind)

	var out PingMsg
	require.NoError(t, decodeBody(env, &out))
}

func TestConnRoundTripsJSONLines(t *testing.T) {
	server := NewServer(NewDispatcher(logrus.New()), logrus.New())
	require.NoError(t, server.Listen("127.0.0.1:0"))
	go server.Serve()
	defer server.Close()

	received := make(chan HelloMsg, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	server.dispatcher.On(TypeHello, func(peerID string, env Envelope) error {
		defer wg.Done()
		var hello HelloMsg
		if err := decodeBody(env, &hello); err != nil {
			return err
		}
		received <- hello
		return nil
	})

	conn, err := server.Dial(server.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Send(TypeHello, HelloMsg{NodeID: "peer-a", Port: 51235}))

	select {
	case hello := <-received:
		require.Equal(t, "peer-a", hello.NodeID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for HELLO dispatch")
	}
}

func TestDispatcherSwallowsHandlerPanic(t *testing.T) {
	d := NewDispatcher(logrus.New())
	d.On(TypePing, func(string, Envelope) error {
		panic("boom")
	})

	env, err := Encode(TypePing, PingMsg{})
	require.NoError(t, err)

	require.NotPanics(t, func() { d.Dispatch("peer", env) })
}

func TestCompressionRoundTrip(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 7)
	}

	msg := EncodeSnapshotMessage(data)
	require.NotNil(t, msg.Compressed)

	got, err := DecodeSnapshotMessage(msg)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestCompressionSkipsSmallPayloads(t *testing.T) {
	data := []byte("tiny")
	msg := EncodeSnapshotMessage(data)
	require.Nil(t, msg.Compressed)

	got, err := DecodeSnapshotMessage(msg)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
