package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretPayload é o formato JSON guardado no Secrets Manager.
type secretPayload struct {
	MPAccessToken   string `json:"mp_access_token"`
	MPWebhookSecret string `json:"mp_webhook_secret"`
	S3AccessKey     string `json:"s3_access_key"`
	S3SecretKey     string `json:"s3_secret_key"`
	JWTSecret       string `json:"jwt_secret"`
}

type secretFetcher interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// ResolveSecrets preenche as chaves vazias a partir do AWS Secrets Manager.
// Variáveis de ambiente sempre têm prioridade.
func (c *Config) ResolveSecrets(ctx context.Context) error {
	if c.AWSSecretID == "" || !c.missingSecrets() {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.S3Region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	return c.resolveSecretsWith(ctx, secretsmanager.NewFromConfig(awsCfg))
}

func (c *Config) resolveSecretsWith(ctx context.Context, client secretFetcher) error {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(c.AWSSecretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return fmt.Errorf("get secret %s: %w", c.AWSSecretID, err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", c.AWSSecretID)
	}

	var p secretPayload
	if err := json.Unmarshal([]byte(*out.SecretString), &p); err != nil {
		return fmt.Errorf("decode secret %s: %w", c.AWSSecretID, err)
	}

	fill(&c.MPAccessToken, p.MPAccessToken)
	fill(&c.MPWebhookSecret, p.MPWebhookSecret)
	fill(&c.S3AccessKey, p.S3AccessKey)
	fill(&c.S3SecretKey, p.S3SecretKey)
	if (c.JWTSecret == "" || c.JWTSecret == "changeme") && p.JWTSecret != "" {
		c.JWTSecret = p.JWTSecret
	}

	return nil
}

func (c *Config) missingSecrets() bool {
	return c.MPAccessToken == "" ||
		c.MPWebhookSecret == "" ||
		c.S3AccessKey == "" ||
		c.S3SecretKey == "" ||
		c.JWTSecret == "" ||
		c.JWTSecret == "changeme"
}

func fill(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
