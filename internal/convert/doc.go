// Package convert turns Word documents into PDFs and PDFs into Word
// documents inside a process-local scratch directory. The byte-level format
// work is delegated to format libraries; this package owns validation, the
// scratch directory, and the error taxonomy.
package convert
