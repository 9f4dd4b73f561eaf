package drive

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// googleStrategy reads videoMediaMetadata through the Drive API under a
// single credential identity.
type googleStrategy struct {
	name string
	svc  *gdrive.Service
}

func (g *googleStrategy) Name() string { return g.name }

func (g *googleStrategy) VideoDurationMillis(ctx context.Context, fileID string) (int64, error) {
	file, err := g.svc.Files.Get(fileID).Fields("videoMediaMetadata").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	if file.VideoMediaMetadata == nil {
		return 0, nil
	}
	return file.VideoMediaMetadata.DurationMillis, nil
}

// NewGoogleStrategies builds the credential chain from a service account
// key: the domain-delegated identity first (when a subject is configured),
// then the direct service identity. Delegation widens file access to
// recordings owned by domain users.
func NewGoogleStrategies(ctx context.Context, serviceAccountKey []byte, impersonateUser string) ([]Strategy, error) {
	var strategies []Strategy

	if impersonateUser != "" {
		jwt, err := google.JWTConfigFromJSON(serviceAccountKey, gdrive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		jwt.Subject = impersonateUser
		svc, err := gdrive.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
		if err != nil {
			return nil, fmt.Errorf("create delegated drive service: %w", err)
		}
		strategies = append(strategies, &googleStrategy{name: "delegated(" + impersonateUser + ")", svc: svc})
	}

	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsJSON(serviceAccountKey),
		option.WithScopes(gdrive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	strategies = append(strategies, &googleStrategy{name: "service-account", svc: svc})

	return strategies, nil
}
