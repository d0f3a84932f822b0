// Package azure implements [ai.Client] for Azure OpenAI deployments.
//
// Requests go to a deployment-scoped URL with an api-version query
// parameter and authenticate with the api-key header. The deployment fixes
// the model, so the request body carries no "model" field.
package azure

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/ai/openai"
)

const DefaultAPIVersion = "2024-02-15-preview"

// ErrMissingDeployment is returned by [New] when ResourceName or
// DeploymentName is empty.
var ErrMissingDeployment = errors.New("azure: resource name and deployment name are required")

// Config extends ai.ClientConfig with the Azure deployment coordinates.
type Config struct {
	ai.ClientConfig

	ResourceName   string // Azure resource, the {resource} in {resource}.openai.azure.com
	DeploymentName string // Model deployment
	APIVersion     string // Default DefaultAPIVersion
}

// AzureProvider is an OpenAI-compatible client bound to one deployment.
type AzureProvider struct {
	*openai.OpenAIProvider
	deployment string
}

// New creates an Azure OpenAI client. BaseURL, when set, replaces
// https://{resource}.openai.azure.com.
func New(config Config) (*AzureProvider, error) {
	if config.ResourceName == "" || config.DeploymentName == "" {
		return nil, ErrMissingDeployment
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}

	deployment := config.DeploymentName
	apiVersion := config.APIVersion

	provider := openai.NewCompatible(openai.Compatible{
		Provider:       ai.ProviderAzureOpenAI,
		DefaultBaseURL: fmt.Sprintf("https://%s.openai.azure.com", config.ResourceName),
		DefaultModel:   deployment,
		Endpoint: func(clientConfig ai.ClientConfig) string {
			return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
				strings.TrimRight(clientConfig.BaseURL, "/"), url.PathEscape(deployment), url.QueryEscape(apiVersion))
		},
		Headers: func(clientConfig ai.ClientConfig) []utils.HeaderOption {
			return []utils.HeaderOption{{Key: "api-key", Value: clientConfig.APIKey}}
		},
		OmitModel: true,
	}, config.ClientConfig)

	return &AzureProvider{OpenAIProvider: provider, deployment: deployment}, nil
}

// Deployment returns the deployment name requests are scoped to.
func (provider *AzureProvider) Deployment() string { return provider.deployment }
