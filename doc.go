// Package merecat implements the core request-processing engine of a small
// embedded HTTP/1.x server: accepting a connection, parsing a request,
// mapping a URL to a filesystem resource under security constraints, and
// dispatching a static file, a directory index, a CGI program, or an error.
//
// Process bootstrap, the connection-multiplexing event loop, and TLS
// termination are external collaborators; this package exposes non-blocking
// entry points that such a loop drives.
//
// Bootstrap must os.Chdir into ServerContext.DocumentRoot before the loop
// starts accepting: path resolution walks a request's filename relative to
// the process's working directory, not to DocumentRoot directly, the same
// way thttpd's own startup chdirs into its document root once before serving.
package merecat
