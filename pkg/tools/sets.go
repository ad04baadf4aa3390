package tools

import "context"

// NewERPNextCRMTools loads the ERPNext CRM tool inventory (customers,
// leads, quotations, invoices). Used by the CFO agent.
func NewERPNextCRMTools(ctx context.Context, url string) (*Set, error) {
	return LoadSet(ctx, "erpnext-crm", "erpnext_crm_", NewMCPClient(url))
}

// NewERPNextProjectsTools loads the ERPNext Projects tool inventory
// (projects, tasks, timesheets). Used by the COO agent.
func NewERPNextProjectsTools(ctx context.Context, url string) (*Set, error) {
	return LoadSet(ctx, "erpnext-projects", "erpnext_projects_", NewMCPClient(url))
}

// NewGiteaTools loads the Gitea tool inventory (repos, issues, pull
// requests). Used by the COO and CTO agents.
func NewGiteaTools(ctx context.Context, url string) (*Set, error) {
	return LoadSet(ctx, "gitea", "gitea_", NewMCPClient(url))
}
