package extractor

// textExtractionPrompt instructs the model to extract invoice data from
// free text. Only fields the model is confident about may be included;
// the normalization pipeline fills in the rest.
const textExtractionPrompt = `You are an AI assistant that extracts invoice information from natural language text.
Extract as much relevant invoice data as possible, but only include fields you are confident about.
Return a valid JSON object that conforms to the following invoice structure:

{
  "sender": {
    "name": "string",
    "address": "string",
    "zipCode": "string",
    "city": "string",
    "country": "string",
    "email": "string",
    "phone": "string"
  },
  "receiver": {
    "name": "string",
    "address": "string",
    "zipCode": "string",
    "city": "string",
    "country": "string",
    "email": "string",
    "phone": "string"
  },
  "details": {
    "invoiceNumber": "string",
    "invoiceDate": "ISO date string",
    "dueDate": "ISO date string",
    "currency": "string",
    "subTotal": number,
    "totalAmount": number,
    "additionalNotes": "string",
    "paymentTerms": "string",
    "items": [
      {
        "name": "string",
        "description": "string",
        "quantity": number,
        "unitPrice": number,
        "taxRate": number,
        "discount": number
      }
    ]
  }
}

For each item, ALWAYS include:
- name: Item name or description
- quantity: The number of items (default to 1 if unclear)
- unitPrice: The price per unit (default to 0 if unclear)
- taxRate: The tax rate (default to 0 if unclear)
- discount: The discount (default to 0 if unclear)

Only include fields where you have information. If you're uncertain about any field, omit it entirely.
For dates, use ISO format (YYYY-MM-DD). If no date is specified, DO NOT include the field.
For numeric fields, use numbers without currency symbols. If a price is given per unit, calculate total = quantity * unitPrice.
If no specific invoice number is provided, DO NOT include it.`

// visionExtractionPrompt instructs the model to read an invoice image.
const visionExtractionPrompt = `Carefully examine this invoice document and extract ALL visible information.

Return a JSON object with this exact structure:

{
  "sender": {"name": "string", "address": "string", "zipCode": "string", "city": "string", "country": "string", "email": "string", "phone": "string"},
  "receiver": {"name": "string", "address": "string", "zipCode": "string", "city": "string", "country": "string", "email": "string", "phone": "string"},
  "details": {
    "invoiceNumber": "string",
    "invoiceDate": "YYYY-MM-DD",
    "dueDate": "YYYY-MM-DD",
    "currency": "string",
    "subTotal": number,
    "totalAmount": number,
    "paymentTerms": "string",
    "additionalNotes": "string",
    "items": [{"name": "string", "description": "string", "quantity": number, "unitPrice": number, "taxRate": number, "discount": number}]
  }
}

IMPORTANT:
- Extract EXACTLY what you see. Do not guess or make up values.
- The sender is the party issuing the invoice, the receiver is the party being billed.
- For amounts, use numbers without currency symbols.
- If a field is not visible or unclear, omit it entirely.`
