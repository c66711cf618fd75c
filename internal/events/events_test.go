package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"lot-bidding/internal/increment"
	model "lot-bidding/internal/models"
	"lot-bidding/internal/money"

	"github.com/golang/mock/gomock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 6, 1, 18, 0, 0, 123456789, time.UTC)

func openLot() model.Lot {
	current := money.New(65000, "USD")
	return model.Lot{
		LotID:           "lot1",
		AuctionID:       "auction1",
		StartingBid:     money.New(10000, "USD"),
		Increment:       increment.Flat(1000),
		Status:          model.StatusOpen,
		CurrentBid:      &current,
		CurrentBidderID: "bidder1",
		Version:         4,
	}
}

func TestNewBidAccepted(t *testing.T) {
	t.Parallel()

	bid := model.Bid{
		BidID:       "bid1",
		LotID:       "lot1",
		BidderID:    "bidder1",
		Amount:      money.New(65000, "USD"),
		SubmittedAt: at.Add(-time.Second),
		AcceptedAt:  &at,
		Outcome:     model.BidAccepted,
	}
	ev := NewBidAccepted(openLot(), bid)

	require.Equal(t, BidAccepted, ev.Type)
	require.NotEmpty(t, ev.EventID)
	require.Equal(t, "bid1", ev.BidID)
	require.Equal(t, "bidder1", ev.BidderID)
	require.Equal(t, int64(65000), ev.AmountMinor)
	require.Equal(t, "USD", ev.Currency)
	require.Equal(t, int64(4), ev.Version)
	require.True(t, at.Equal(ev.OccurredAt))
}

func TestNewLotClosed(t *testing.T) {
	t.Parallel()

	price := money.New(70000, "USD")
	highest := money.New(65000, "USD")

	tests := []struct {
		name       string
		outcome    model.ClosingOutcome
		wantBidder string
		wantAmount int64
		wantSource string
	}{
		{
			name: "sold_carries_winner",
			outcome: model.ClosingOutcome{
				Kind: model.OutcomeSold, WinnerID: "absentee1", FinalPrice: &price,
				Source: model.SourceCommission, HighestBid: &price, HighestBidderID: "absentee1", ClosedAt: at,
			},
			wantBidder: "absentee1",
			wantAmount: 70000,
			wantSource: string(model.SourceCommission),
		},
		{
			name: "reserve_not_met_hides_highest",
			outcome: model.ClosingOutcome{
				Kind: model.OutcomeReserveNotMet, HighestBid: &highest, HighestBidderID: "bidder1", ClosedAt: at,
			},
		},
		{
			name:    "no_bids",
			outcome: model.ClosingOutcome{Kind: model.OutcomeNoBids, ClosedAt: at},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lot := openLot()
			lot.Status = tc.outcome.LotStatus()
			ev := NewLotClosed(lot, tc.outcome)

			require.Equal(t, LotClosed, ev.Type)
			require.Equal(t, string(tc.outcome.Kind), ev.Outcome)
			require.Equal(t, string(tc.outcome.LotStatus()), ev.Status)
			require.Equal(t, tc.wantBidder, ev.BidderID)
			require.Equal(t, tc.wantAmount, ev.AmountMinor)
			require.Equal(t, tc.wantSource, ev.Source)
		})
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	ev := NewLotClosed(openLot(), model.ClosingOutcome{Kind: model.OutcomeNoBids, ClosedAt: at})
	ev.Status = string(model.StatusReserveNotMet)

	for _, name := range []string{"json", "cbor"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			codec, err := NewCodec(name)
			require.NoError(t, err)

			data, err := codec.Encode(ev)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			got, err := codec.Decode(data)
			require.NoError(t, err)
			require.True(t, ev.OccurredAt.Equal(got.OccurredAt))
			got.OccurredAt = ev.OccurredAt
			require.Equal(t, ev, got)
		})
	}
}

func TestCodecs_ContentTypeAndErrors(t *testing.T) {
	t.Parallel()

	jsonCodec, err := NewCodec("JSON")
	require.NoError(t, err)
	require.Equal(t, "application/json", jsonCodec.ContentType())

	cborCodec, err := NewCodec("cbor")
	require.NoError(t, err)
	require.Equal(t, "application/cbor", cborCodec.ContentType())

	_, err = NewCodec("xml")
	require.Error(t, err)

	_, err = jsonCodec.Decode([]byte("{"))
	require.Error(t, err)
	_, err = cborCodec.Decode([]byte{0xff})
	require.Error(t, err)
}

func TestCBORCodec_Deterministic(t *testing.T) {
	t.Parallel()

	codec, err := NewCBORCodec()
	require.NoError(t, err)

	ev := NewLotWithdrawn(openLot(), at)
	first, err := codec.Encode(ev)
	require.NoError(t, err)
	second, err := codec.Encode(ev)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ch := NewMockamqpChannel(ctrl)
	ch.EXPECT().ExchangeDeclare("lot_events", "topic", true, false, false, false, gomock.Nil()).Return(nil)

	p, err := newAMQPPublisher(ch, "lot_events", JSONCodec{})
	require.NoError(t, err)

	ev := NewLotOpened(openLot(), at)
	ch.EXPECT().
		PublishWithContext(gomock.Any(), "lot_events", "lot.opened", false, false, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			require.Equal(t, "application/json", msg.ContentType)
			require.Equal(t, amqp.Persistent, msg.DeliveryMode)
			require.Equal(t, ev.EventID, msg.MessageId)

			decoded, err := JSONCodec{}.Decode(msg.Body)
			require.NoError(t, err)
			require.Equal(t, ev.LotID, decoded.LotID)
			return nil
		})
	require.NoError(t, p.Publish(context.Background(), ev))

	brokerDown := errors.New("channel closed")
	ch.EXPECT().PublishWithContext(gomock.Any(), "lot_events", "lot.opened", false, false, gomock.Any()).Return(brokerDown)
	err = p.Publish(context.Background(), ev)
	require.ErrorIs(t, err, brokerDown)

	ch.EXPECT().Close().Return(nil)
	p.Close()
}

func TestAMQPPublisher_DeclareFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ch := NewMockamqpChannel(ctrl)
	ch.EXPECT().ExchangeDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("access refused"))

	_, err := newAMQPPublisher(ch, "lot_events", JSONCodec{})
	require.Error(t, err)
}

func TestLogPublisher_Publish(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewLogPublisher().Publish(context.Background(), NewLotOpened(openLot(), at)))
}
