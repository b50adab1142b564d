package transport

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/autolife/feedsync/pkg/errors"
)

// Header is the XML declaration prepended to every request body.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// errorEnvelope matches any response whose root element is <Error>.
type errorEnvelope struct {
	XMLName xml.Name
	Message string `xml:",chardata"`
}

// EncodeXML marshals a request payload with the XML declaration.
func EncodeXML(payload any) ([]byte, error) {
	body, err := xml.Marshal(payload)
	if err != nil {
		return nil, errors.WrapParse("xml", "request", err)
	}
	return append([]byte(Header), body...), nil
}

// ReadXML reads and closes the response body and classifies error-shaped
// responses, returning the raw body on success. The remote system
// signals application errors with an <Error> root element rather than an
// HTTP status, so both are checked.
func ReadXML(endpoint string, resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError(endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env errorEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && strings.EqualFold(env.XMLName.Local, "Error") {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "unknown error"
		}
		return nil, errors.NewAPIError(endpoint, 0, msg)
	}

	return body, nil
}

// DecodeXML reads the response through ReadXML and unmarshals the
// success payload into target. A nil target only runs the error checks.
func DecodeXML(endpoint string, resp *http.Response, target any) error {
	body, err := ReadXML(endpoint, resp)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := xml.Unmarshal(body, target); err != nil {
		return errors.WrapParse("xml", endpoint, err)
	}
	return nil
}
