package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"

	"academy-manager/internal/config"
	apihttp "academy-manager/internal/httpjson"
)

// Uploads issues V4 signed URLs so the client can push participant documents
// and certificate templates straight to the bucket.
type Uploads struct {
	cfg config.Config
	iam *credentials.IamCredentialsClient
}

func NewUploads(cfg config.Config) *Uploads {
	// IAM client is optional; only needed for signed URLs.
	iamClient, _ := credentials.NewIamCredentialsClient(context.Background())
	return &Uploads{cfg: cfg, iam: iamClient}
}

type signedURLReq struct {
	ObjectPath     string `json:"objectPath"` // e.g. "participants/{id}/documents/contract.pdf"
	ContentType    string `json:"contentType,omitempty"`
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty"` // default 900
}

type signedURLResp struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

func (h *Uploads) CreateSignedUploadURL(w http.ResponseWriter, r *http.Request) {
	var req signedURLReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ObjectPath == "" {
		apihttp.Fail(w, http.StatusBadRequest, "objectPath is required")
		return
	}
	url, exp, err := h.signedURL(r.Context(), req.ObjectPath, req.ContentType, req.ExpiresSeconds)
	if err != nil {
		apihttp.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, signedURLResp{URL: url, Method: "PUT", ExpiresAt: exp.Unix()})
}

func (h *Uploads) signedURL(ctx context.Context, objectPath, contentType string, expiresSeconds int64) (string, time.Time, error) {
	if h.cfg.StorageBucket == "" {
		return "", time.Time{}, fmt.Errorf("STORAGE_BUCKET is not set")
	}
	if h.cfg.SignedURLServiceAccountEmail == "" {
		return "", time.Time{}, fmt.Errorf("SIGNED_URL_SERVICE_ACCOUNT_EMAIL is not set")
	}
	if h.iam == nil {
		return "", time.Time{}, fmt.Errorf("IAM credentials client not available")
	}
	if expiresSeconds <= 0 || expiresSeconds > 3600 {
		expiresSeconds = 900
	}
	exp := time.Now().Add(time.Duration(expiresSeconds) * time.Second)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "PUT",
		Expires:        exp,
		ContentType:    contentType,
		GoogleAccessID: h.cfg.SignedURLServiceAccountEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			name := fmt.Sprintf("projects/-/serviceAccounts/%s", h.cfg.SignedURLServiceAccountEmail)
			resp, err := h.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    name,
				Payload: b,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}

	url, err := storage.SignedURL(h.cfg.StorageBucket, objectPath, opts)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign url (check service account + permissions): %v", err)
	}
	return url, exp, nil
}
