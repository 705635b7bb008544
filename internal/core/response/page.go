package response

import "strconv"

const (
	StatusLine  = "HTTP/1.1 200 OK\n"
	ContentType = "Content-Type: text/html; charset=UTF-8\n"
)

// Body is the single document served to every client.
const Body = "" +
	"    <!DOCTYPE html>\n" +
	"    <html lang=\"en\">\n" +
	"        <head>\n" +
	"            <meta charset=\"UTF-8\">\n" +
	"            <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n" +
	"            <title>Server</title>\n" +
	"        </head>\n" +
	"    <body>\n" +
	"        <h1>Welcome!</h1>\n" +
	"        <p>We'll be right back.</p>\n" +
	"    </body>\n" +
	"    </html>\n"

// Build assembles the framed response for body into a new Buffer. Header lines
// end in a bare LF, which existing clients of this server rely on.
func Build(body string) *Buffer {
	res := NewBuffer()
	res.AppendString(StatusLine)
	res.AppendString(ContentType)
	res.AppendString("Content-Length: ")
	res.AppendString(strconv.Itoa(len(body)))
	res.AppendString("\n\n")
	res.AppendString(body)
	return res
}

// Page builds the response carrying Body.
func Page() *Buffer {
	return Build(Body)
}
