// Package pages holds the storefront's page modules and its route table.
//
// Each route name maps to a page factory in the Registry. Pages render
// html/template fragments into the router's mount target and may implement
// router.Submitter to handle the forms they render. Pages that need the query
// string read it from router.FromContext.
package pages
