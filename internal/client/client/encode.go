package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

func jsonBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, ValidationError("Could not encode request", err)
	}
	return b, nil
}

type formWriter struct {
	buf bytes.Buffer
	mw  *multipart.Writer
	err error
}

func newFormWriter() *formWriter {
	fw := &formWriter{}
	fw.mw = multipart.NewWriter(&fw.buf)
	return fw
}

func (fw *formWriter) field(name, value string) {
	if fw.err != nil {
		return
	}
	fw.err = fw.mw.WriteField(name, value)
}

// file writes a file part keeping the attachment's media type. Missing
// types fall back to application/octet-stream.
func (fw *formWriter) file(name string, a *models.Attachment) {
	if fw.err != nil || a == nil {
		return
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(name), escapeQuotes(a.Filename)))
	h.Set("Content-Type", contentType)

	part, err := fw.mw.CreatePart(h)
	if err != nil {
		fw.err = err
		return
	}
	_, fw.err = part.Write(a.Data)
}

func (fw *formWriter) finish() ([]byte, string, error) {
	if fw.err != nil {
		return nil, "", fw.err
	}
	if err := fw.mw.Close(); err != nil {
		return nil, "", err
	}
	return fw.buf.Bytes(), fw.mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func encodeReport(f models.ReportForm) ([]byte, string, error) {
	fw := newFormWriter()
	fw.field("name", f.Name)
	fw.field("email", f.Email)
	fw.field("phoneNumber", f.PhoneNumber)
	fw.field("address", f.Address)
	fw.field("location", f.Location)
	fw.field("title", f.Title)
	fw.field("description", f.Description)
	fw.file("reportImage", f.Image)
	if f.Latitude != nil && f.Longitude != nil {
		fw.field("latitude", formatCoord(*f.Latitude))
		fw.field("longitude", formatCoord(*f.Longitude))
	}
	return fw.finish()
}

func encodeProfileUpdate(u models.ProfileUpdate) ([]byte, string, error) {
	fw := newFormWriter()
	fw.field("name", u.Name)
	fw.field("email", u.Email)
	fw.field("phoneNumber", u.PhoneNumber)
	fw.field("address", u.Address)
	fw.field("role", u.Role)
	fw.field("bio", u.Bio)
	fw.file("picture", u.Picture)
	return fw.finish()
}
