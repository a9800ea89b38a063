package consumer_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

type fakeProjector struct {
	calls [][3]string
	err   error
}

func (f *fakeProjector) SyncEmployeeName(ctx context.Context, companyID, employeeID, name string) (int64, error) {
	f.calls = append(f.calls, [3]string{companyID, employeeID, name})
	return 2, f.err
}

func renamedMessage() kafkago.Message {
	return kafkago.Message{
		Key:   []byte("EMP-000001"),
		Value: []byte(`{"event_type":"employee_renamed","employee_id":"EMP-000001","company_id":"c-1","old_name":"Ann","new_name":"Anne"}`),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(events.EmployeeRenamedType)},
		},
	}
}

func TestEmployeeLifecycleHandler_Renamed(t *testing.T) {
	projector := &fakeProjector{}
	handle := consumer.EmployeeLifecycleHandler(projector, zap.NewNop())

	assert.NoError(t, handle(context.Background(), renamedMessage()))
	assert.Equal(t, [][3]string{{"c-1", "EMP-000001", "Anne"}}, projector.calls)
}

func TestEmployeeLifecycleHandler_PayloadTypeFallback(t *testing.T) {
	projector := &fakeProjector{}
	handle := consumer.EmployeeLifecycleHandler(projector, zap.NewNop())

	msg := renamedMessage()
	msg.Headers = nil
	assert.NoError(t, handle(context.Background(), msg))
	assert.Len(t, projector.calls, 1)
}

func TestEmployeeLifecycleHandler_IgnoresOtherEvents(t *testing.T) {
	projector := &fakeProjector{}
	handle := consumer.EmployeeLifecycleHandler(projector, zap.NewNop())

	msg := kafkago.Message{Value: []byte(`{"event_type":"employee_created","employee_id":"EMP-1"}`)}
	assert.NoError(t, handle(context.Background(), msg))
	assert.Empty(t, projector.calls)
}

func TestConsume_CommitsOnlyHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := renamedMessage()
	bad := renamedMessage()
	bad.Offset = 7

	reader := &fakeReader{msgs: []kafkago.Message{ok, bad}, cancel: cancel}
	handle := func(ctx context.Context, msg kafkago.Message) error {
		if msg.Offset == 7 {
			return errors.New("db down")
		}
		return nil
	}

	consumer.Consume(ctx, reader, handle, zap.NewNop())

	assert.Len(t, reader.committed, 1)
	assert.Equal(t, int64(0), reader.committed[0].Offset)
}
