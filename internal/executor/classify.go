package executor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/jesseglab/postduck/internal/model"
)

// classifyTransportError turns a failed dispatch into a zero-status
// response whose body explains what went wrong. Checks run in priority
// order so a timeout is never misreported as a generic network failure.
func classifyTransportError(err error, url, method string, elapsed int64) *model.ExecuteResponse {
	details := fmt.Sprintf("URL: %s\nMethod: %s", url, method)

	var body string
	switch {
	case isTimeout(err):
		body = fmt.Sprintf("Error: Request timeout after 30 seconds.\n\n%s\n\nThe server did not respond in time. This could indicate:\n- The server is slow or overloaded\n- Network connectivity issues\n- The endpoint is not responding", details)

	case isDNSFailure(err):
		body = fmt.Sprintf("Error: DNS resolution failed - could not resolve hostname.\n\n%s\n\nThis means the domain name could not be resolved. Check:\n- Is the URL correct?\n- Is the domain name spelled correctly?\n- Do you have internet connectivity?", details)

	case errors.Is(err, syscall.ECONNREFUSED):
		body = fmt.Sprintf("Error: Connection refused.\n\n%s\n\nThe server refused the connection. This could mean:\n- The server is not running\n- The port is incorrect\n- A firewall is blocking the connection", details)

	case isCertificateError(err):
		body = fmt.Sprintf("Error: SSL/TLS certificate error.\n\n%s\n\nThere was a problem with the SSL certificate. This could be:\n- Self-signed certificate\n- Expired certificate\n- Certificate mismatch\n\nOriginal error: %s", details, err.Error())

	default:
		body = fmt.Sprintf("Error: Network request failed.\n\n%s\n\nError details: %s\n\nPossible causes:\n- Invalid URL or unreachable server\n- Network connectivity issues\n- SSL/TLS certificate problems\n- Server is down or unreachable", details, err.Error())
	}

	return &model.ExecuteResponse{
		StatusCode: 0,
		Headers:    map[string]string{},
		Body:       body,
		Duration:   elapsed,
		Size:       len(body),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSFailure(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isCertificateError(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostnameErr      x509.HostnameError
		certInvalid      x509.CertificateInvalidError
		recordHeaderErr  tls.RecordHeaderError
		verifyErr        *tls.CertificateVerificationError
	)
	if errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &certInvalid) ||
		errors.As(err, &recordHeaderErr) ||
		errors.As(err, &verifyErr) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "certificate") ||
		strings.Contains(message, "tls:") ||
		strings.Contains(message, "x509:")
}
