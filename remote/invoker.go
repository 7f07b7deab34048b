package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/unkn0wn-root/cachebox"
	pb "github.com/unkn0wn-root/cachebox/rpc/cachepb"
)

// callFunc performs one attempt of a remote call with the invoker's call options.
type callFunc func(ctx context.Context, opts ...grpc.CallOption) error

// invoker retries Unavailable with a fixed delay and maps every other status
// onto the cachebox taxonomy.
type invoker struct {
	attempts int
	delay    time.Duration
	log      cachebox.Logger
	hooks    cachebox.Hooks
}

func (iv *invoker) invoke(ctx context.Context, method string, call callFunc) error {
	var (
		attempt int
		trailer metadata.MD
	)
	op := func() error {
		attempt++
		trailer = nil
		err := call(ctx, grpc.Trailer(&trailer))
		if err == nil {
			return nil
		}
		if status.Code(err) == codes.Unavailable {
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(iv.delay), uint64(iv.attempts-1)),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		iv.log.Warn("remote call unavailable, retrying", cachebox.Fields{
			"method": method, "attempt": attempt, "next": next, "err": err,
		})
		iv.hooks.RetryScheduled(method, attempt, err)
	}

	err := backoff.RetryNotify(op, b, notify)
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.Unavailable {
		iv.log.Error("remote call exhausted retries", cachebox.Fields{"method": method, "attempts": attempt})
		iv.hooks.RetriesExhausted(method, attempt)
		return cachebox.NewError(cachebox.KindInternal,
			fmt.Sprintf("unable to reach cache service after %d attempts", attempt), err)
	}
	return translate(err, trailer)
}

// translate maps a non-retryable failure:
//
//	InvalidArgument -> BadRequest (400)
//	NotFound        -> NotFound (404)
//	anything else   -> InternalError (500)
func translate(err error, md metadata.MD) error {
	st, _ := status.FromError(err)

	kind := cachebox.KindInternal
	switch st.Code() {
	case codes.InvalidArgument:
		kind = cachebox.KindBadRequest
	case codes.NotFound:
		kind = cachebox.KindNotFound
	}

	msg := st.Message()
	if msg == "" {
		msg = st.Code().String()
	}
	e := cachebox.NewError(kind, msg, err)
	if len(md) > 0 {
		e.Data = map[string][]string(md)
	}
	return e
}

// client is the started connector's handle: one connection and the typed,
// retry-wrapped calls of the catbox.Cache service.
type client struct {
	conn *grpc.ClientConn
	stub pb.CacheClient
	inv  *invoker
}

func (cl *client) ping(ctx context.Context) error {
	return cl.inv.invoke(ctx, "ping", func(ctx context.Context, opts ...grpc.CallOption) error {
		_, err := cl.stub.Ping(ctx, &pb.Empty{}, opts...)
		return err
	})
}

func (cl *client) getEntry(ctx context.Context, in *pb.GetEntryParams) (*pb.Entry, error) {
	var out *pb.Entry
	err := cl.inv.invoke(ctx, "getEntry", func(ctx context.Context, opts ...grpc.CallOption) error {
		var err error
		out, err = cl.stub.GetEntry(ctx, in, opts...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (cl *client) setEntry(ctx context.Context, in *pb.SetEntryParams) error {
	return cl.inv.invoke(ctx, "setEntry", func(ctx context.Context, opts ...grpc.CallOption) error {
		_, err := cl.stub.SetEntry(ctx, in, opts...)
		return err
	})
}

func (cl *client) deleteEntry(ctx context.Context, in *pb.DeleteEntryParams) error {
	return cl.inv.invoke(ctx, "deleteEntry", func(ctx context.Context, opts ...grpc.CallOption) error {
		_, err := cl.stub.DeleteEntry(ctx, in, opts...)
		return err
	})
}
