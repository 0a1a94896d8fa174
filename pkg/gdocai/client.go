package gdocai

import (
	"context"
	"errors"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Config identifies the Document AI processor to use.
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
	// CredentialsFile defaults to $GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsFile string `yaml:"credentials_file"`
}

// Validate checks that the processor is fully identified.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("document AI config is missing")
	}
	if c.ProjectID == "" || c.Location == "" || c.ProcessorID == "" {
		return errors.New("document AI config requires project_id, location and processor_id")
	}
	return nil
}

// ProcessorName returns the resource name of the processor.
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Client sends documents to one Document AI processor.
type Client struct {
	api *documentai.DocumentProcessorClient
	cfg Config
}

// NewClient connects to the regional Document AI endpoint of cfg.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	credentials := cfg.CredentialsFile
	if credentials == "" {
		credentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	api, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &Client{api: api, cfg: *cfg}, nil
}

// Process sends content of the given MIME type to the processor and returns
// the raw Document proto response.
func (c *Client) Process(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error) {
	req := &documentaipb.ProcessRequest{
		Name: c.cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	resp, err := c.api.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.Document, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.api.Close()
}
