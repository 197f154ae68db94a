// internal/common/camunda/worker_test.go
package camunda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeJobWorker struct {
	closed     chan struct{}
	blockClose chan struct{}
}

func newFakeJobWorker() *fakeJobWorker {
	return &fakeJobWorker{closed: make(chan struct{})}
}

func (f *fakeJobWorker) Close() {
	if f.blockClose != nil {
		<-f.blockClose
	}
	close(f.closed)
}

func (f *fakeJobWorker) AwaitClose() {
	<-f.closed
}

func TestStop_ClosesJobWorker(t *testing.T) {
	fake := newFakeJobWorker()
	w := &CamundaWorker{
		worker:   fake,
		logger:   zap.NewNop(),
		taskType: "run-ai-matching",
	}

	w.Stop(context.Background())

	select {
	case <-fake.closed:
	default:
		t.Fatal("expected job worker to be closed")
	}
}

func TestStop_ReturnsWhenContextExpires(t *testing.T) {
	fake := newFakeJobWorker()
	fake.blockClose = make(chan struct{})
	w := &CamundaWorker{
		worker:   fake,
		logger:   zap.NewNop(),
		taskType: "score-consultant",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	w.Stop(ctx)
	assert.Less(t, time.Since(start), 2*time.Second, "Stop must not hang on a stuck worker")

	close(fake.blockClose)
}
