package remotefile

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Spec is a fetched remote file
type Spec struct {
	URL     string
	Content []byte
}

type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	doer   Doer
	logger logrus.FieldLogger
}

func WithDoer(doer Doer) ResolverOption {
	return func(opts *resolverOptions) {
		opts.doer = doer
	}
}

func WithLogger(logger logrus.FieldLogger) ResolverOption {
	return func(opts *resolverOptions) {
		opts.logger = logger
	}
}

// Resolver fetches remote files one after the other. Results keep the
// order the URLs were added in.
type Resolver struct {
	urls   []string
	ctx    context.Context
	client *Client
	logger logrus.FieldLogger
}

func NewResolver(ctx context.Context, opts ...ResolverOption) *Resolver {
	options := &resolverOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		options.logger = discard
	}

	return &Resolver{
		ctx:    ctx,
		client: NewClient(options.doer),
		logger: options.logger,
	}
}

// Add URLs to the resolver queue
func (r *Resolver) Add(urls ...string) {
	r.urls = append(r.urls, urls...)
}

// Finish fetches all queued URLs in order. It stops at the first
// failure and returns the error of the failing URL only.
func (r *Resolver) Finish() ([]Spec, error) {
	resultItems := make([]Spec, 0, len(r.urls))
	for _, u := range r.urls {
		r.logger.Infof("Downloading: %s", u)
		content, err := r.client.Resolve(r.ctx, u)
		if err != nil {
			return nil, err
		}
		resultItems = append(resultItems, Spec{URL: u, Content: content})
	}
	r.urls = nil

	return resultItems, nil
}
