package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS billing_records (
    invoice_month        TEXT NOT NULL,
    project              TEXT NOT NULL,
    service              TEXT NOT NULL,
    cost                 TEXT NOT NULL,
    currency             TEXT NOT NULL,
    PRIMARY KEY (invoice_month, project, service)
);

CREATE INDEX IF NOT EXISTS idx_billing_month ON billing_records(invoice_month);
CREATE INDEX IF NOT EXISTS idx_billing_project ON billing_records(project);
CREATE INDEX IF NOT EXISTS idx_billing_service ON billing_records(service);
`
