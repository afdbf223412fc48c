// Copyright 2023 Greenmask
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package s3

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/defaults"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zessin/relational-to-graph/internal/storages"
)

const (
	awsErrorCodeNotFound  = "NotFound"
	awsErrorCodeNoSuchKey = "NoSuchKey"
)

type Storage struct {
	config   *Config
	service  s3iface.S3API
	uploader s3manageriface.UploaderAPI
	prefix   string
}

// NewStorage - builds the S3 storage. Static or assumed role credentials take precedence over the default
// credential chain
func NewStorage(ctx context.Context, cfg *Config, logLevel string) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ses, err := newSession(cfg.CertFile)
	if err != nil {
		return nil, err
	}

	awsCfg := newAwsConfig(cfg, logLevel)
	creds, err := staticCredentials(ctx, ses, cfg)
	if err != nil {
		return nil, err
	}
	if creds != nil {
		providers := append([]credentials.Provider{creds}, defaults.CredProviders(awsCfg, defaults.Handlers())...)
		awsCfg.WithCredentials(credentials.NewCredentials(&credentials.ChainProvider{
			VerboseErrors: aws.BoolValue(awsCfg.CredentialsChainVerboseErrors),
			Providers:     providers,
		}))
	}

	service := s3.New(ses, awsCfg)
	uploader := s3manager.NewUploaderWithClient(
		service, func(uploader *s3manager.Uploader) {
			uploader.PartSize = cfg.MaxPartSize
			uploader.Concurrency = cfg.Concurrency
		},
	)

	log.Debug().
		Str("Region", aws.StringValue(service.Config.Region)).
		Str("Bucket", cfg.Bucket).
		Str("Prefix", cfg.Prefix).
		Msg("s3 storage initialised")

	return newStorage(cfg, service, uploader), nil
}

func newSession(certFile string) (*session.Session, error) {
	if certFile == "" {
		ses, err := session.NewSession()
		if err != nil {
			return nil, fmt.Errorf("cannot establish session: %w", err)
		}
		return ses, nil
	}

	bundle, err := os.Open(certFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open cert file: %w", err)
	}
	defer bundle.Close()
	ses, err := session.NewSessionWithOptions(session.Options{CustomCABundle: bundle})
	if err != nil {
		return nil, fmt.Errorf("cannot establish session using cert file %s: %w", certFile, err)
	}
	return ses, nil
}

func newAwsConfig(cfg *Config, logLevel string) *aws.Config {
	awsCfg := aws.NewConfig().
		WithS3ForcePathStyle(cfg.ForcePathStyle).
		WithS3UseAccelerate(cfg.UseAccelerate).
		WithLogger(LogWrapper{logger: &log.Logger}).
		WithLogLevel(aws.LogOff)
	request.WithRetryer(awsCfg, client.DefaultRetryer{NumMaxRetries: cfg.MaxRetries})

	if logLevel == zerolog.LevelDebugValue {
		awsCfg.WithLogLevel(aws.LogDebug | aws.LogDebugWithRequestErrors | aws.LogDebugWithRequestRetries)
	}
	if cfg.NoVerifySsl {
		awsCfg.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		})
	}
	if cfg.Endpoint != "" {
		awsCfg.WithEndpoint(cfg.Endpoint)
	}
	if cfg.Region != "" {
		awsCfg.WithRegion(cfg.Region)
	}
	return awsCfg
}

// staticCredentials - returns the configured key pair, or the temporary credentials of the assumed role. Nil
// means the default credential chain is used alone
func staticCredentials(ctx context.Context, ses *session.Session, cfg *Config) (*credentials.StaticProvider, error) {
	value := credentials.Value{
		AccessKeyID:     cfg.AccessKeyId,
		SecretAccessKey: cfg.SecretAccessKey,
		SessionToken:    cfg.SessionToken,
	}

	if cfg.RoleArn != "" {
		role, err := sts.New(ses).AssumeRoleWithContext(ctx, &sts.AssumeRoleInput{
			RoleArn:         aws.String(cfg.RoleArn),
			RoleSessionName: aws.String(cfg.SessionName),
		})
		if err != nil {
			return nil, fmt.Errorf("cannot assume role %s: %w", cfg.RoleArn, err)
		}
		value = credentials.Value{
			AccessKeyID:     aws.StringValue(role.Credentials.AccessKeyId),
			SecretAccessKey: aws.StringValue(role.Credentials.SecretAccessKey),
			SessionToken:    aws.StringValue(role.Credentials.SessionToken),
		}
	}

	if value.AccessKeyID == "" || value.SecretAccessKey == "" {
		return nil, nil
	}
	return &credentials.StaticProvider{Value: value}, nil
}

func newStorage(cfg *Config, service s3iface.S3API, uploader s3manageriface.UploaderAPI) *Storage {
	return &Storage{
		config:   cfg,
		service:  service,
		uploader: uploader,
		prefix:   fixPrefix(cfg.Prefix),
	}
}

func (s *Storage) GetCwd() string {
	return s.prefix
}

func (s *Storage) GetObject(ctx context.Context, filePath string) (io.ReadCloser, error) {
	obj, err := s.service.GetObjectWithContext(
		ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.config.Bucket),
			Key:    aws.String(path.Join(s.prefix, filePath)),
		},
	)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", filePath, storages.ErrFileNotFound)
		}
		return nil, fmt.Errorf("error getting object: %w", err)
	}
	return obj.Body, nil
}

func (s *Storage) PutObject(ctx context.Context, filePath string, body io.Reader) error {
	ui := &s3manager.UploadInput{
		Bucket:       aws.String(s.config.Bucket),
		Key:          aws.String(path.Join(s.prefix, filePath)),
		Body:         body,
		StorageClass: aws.String(s.config.StorageClass),
	}
	if _, err := s.uploader.UploadWithContext(ctx, ui); err != nil {
		return fmt.Errorf("s3 object uploading error: %w", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, filePaths ...string) error {
	objs := make([]*s3.ObjectIdentifier, len(filePaths))
	for idx, fp := range filePaths {
		objs[idx] = &s3.ObjectIdentifier{
			Key: aws.String(path.Join(s.prefix, fp)),
		}
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(s.config.Bucket),
		Delete: &s3.Delete{
			Objects: objs,
		},
	}
	if _, err := s.service.DeleteObjectsWithContext(ctx, input); err != nil {
		return fmt.Errorf("error deleting objects: %w", err)
	}
	return nil
}

func (s *Storage) Exists(ctx context.Context, fileName string) (bool, error) {
	hoi := &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(path.Join(s.prefix, fileName)),
	}
	if _, err := s.service.HeadObjectWithContext(ctx, hoi); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("error getting object info: %w", err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	var awsErr awserr.Error
	return errors.As(err, &awsErr) &&
		(awsErr.Code() == awsErrorCodeNotFound || awsErr.Code() == awsErrorCodeNoSuchKey)
}

func fixPrefix(prefix string) string {
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix = prefix + "/"
	}
	return prefix
}
