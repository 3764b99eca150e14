// Package printing turns contract and quote data into stored PDF files.
//
// TemplateEngine renders the embedded Vietnamese HTML templates,
// ChromedpRenderer prints the HTML to PDF through headless Chrome and
// FileSystemStorage keeps the result on local disk. An S3 implementation of
// DocumentStorage lives in the storage package.
package printing
